package handlers

import (
	"errors"
	"net/http"
	"strings"

	"linknest/internal/middleware"
	"linknest/internal/services"
	"linknest/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	accounts *services.AccountService
	submit   *services.SubmitService
}

func NewAuthHandler(accounts *services.AccountService, submit *services.SubmitService) *AuthHandler {
	return &AuthHandler{accounts: accounts, submit: submit}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "auth/signup.html", gin.H{"Title": "Sign Up"})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if username == "" || email == "" {
		Render(c, http.StatusBadRequest, "auth/signup.html", gin.H{"Error": "Username and email are required"})
		return
	}
	if len(password) < 6 {
		Render(c, http.StatusBadRequest, "auth/signup.html", gin.H{"Error": "Password must be at least 6 characters"})
		return
	}

	user, err := h.accounts.Register(username, email, password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateUsername) {
			Render(c, http.StatusConflict, "auth/signup.html", gin.H{"Error": "Username already taken"})
			return
		}
		utils.Sugar.Errorw("signup failed", "username", username, "err", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	utils.Sugar.Infow("user registered", "user_id", user.ID, "username", user.Username)
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Success": "Account created, you can log in now"})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/")
		return
	}
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Login"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	token, user, err := h.submit.Login(username, password)
	if err != nil {
		// One message for both unknown user and wrong password, so the form
		// does not reveal which usernames exist.
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrInvalidCredential) {
			Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Invalid username or password"})
			return
		}
		utils.Sugar.Errorw("login failed", "username", username, "err", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	if err := middleware.SaveToken(c, token); err != nil {
		utils.Sugar.Errorw("saving session failed", "username", username, "err", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	utils.Sugar.Infow("user logged in", "user_id", user.ID, "username", user.Username)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.submit.Logout()
	if err := middleware.ClearToken(c); err != nil {
		utils.Sugar.Errorw("clearing session failed", "err", err)
	}
	c.Redirect(http.StatusFound, "/")
}
