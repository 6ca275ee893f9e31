package router

import (
	"linknest/internal/handlers"
	"linknest/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, auth *handlers.AuthHandler, story *handlers.StoryHandler) {
	// 公共路由 (Public Routes)
	r.GET("/", story.Index)           // 首页 - 帖子列表
	r.GET("/post/:id", story.Detail)  // 帖子详情 + 评论树
	r.GET("/signup", auth.ShowSignup) // 注册页面
	r.POST("/signup", auth.Signup)    // 提交注册
	r.GET("/login", auth.ShowLogin)   // 登录页面
	r.POST("/login", auth.Login)      // 提交登录
	r.POST("/logout", auth.Logout)    // 退出登录

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/submission", story.ShowSubmit)   // 发布页面
		authorized.POST("/submission", story.Submit)      // 提交发布
		authorized.POST("/post/:id", story.CreateComment) // 发表评论
	}
}
