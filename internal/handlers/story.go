package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"linknest/internal/middleware"
	"linknest/internal/models"
	"linknest/internal/services"
	"linknest/internal/utils"

	"github.com/gin-gonic/gin"
)

const indexCacheKey = "story:index"

type StoryHandler struct {
	content *services.ContentService
	submit  *services.SubmitService
}

func NewStoryHandler(content *services.ContentService, submit *services.SubmitService) *StoryHandler {
	return &StoryHandler{content: content, submit: submit}
}

func (h *StoryHandler) Index(c *gin.Context) {
	if cached := utils.GetCache().Get(indexCacheKey); cached != nil {
		if posts, ok := cached.([]models.Post); ok {
			Render(c, http.StatusOK, "index.html", gin.H{"Title": "LinkNest", "Posts": posts})
			return
		}
	}

	posts, err := h.content.ListPostsWithAuthors()
	if err != nil {
		utils.Sugar.Errorw("listing posts failed", "err", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	utils.GetCache().Set(indexCacheKey, posts, time.Minute)
	Render(c, http.StatusOK, "index.html", gin.H{"Title": "LinkNest", "Posts": posts})
}

func (h *StoryHandler) ShowSubmit(c *gin.Context) {
	Render(c, http.StatusOK, "story/submit.html", gin.H{"Title": "Submit a Post"})
}

func (h *StoryHandler) Submit(c *gin.Context) {
	title := c.PostForm("title")
	link := c.PostForm("link")

	post, err := h.submit.SubmitPost(middleware.Token(c), title, link)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrUnknownAuthor):
			c.Redirect(http.StatusFound, "/login")
		case errors.Is(err, services.ErrInvalidInput):
			Render(c, http.StatusBadRequest, "story/submit.html", gin.H{"Error": "Title must not be empty"})
		default:
			utils.Sugar.Errorw("submitting post failed", "err", err)
			RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		}
		return
	}

	utils.GetCache().Delete(indexCacheKey)
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

func (h *StoryHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	post, err := h.content.GetPost(id)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			RenderError(c, http.StatusNotFound, "Post not found")
			return
		}
		utils.Sugar.Errorw("loading post failed", "post_id", id, "err", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	comments, err := h.content.ListCommentsForPost(post.ID)
	if err != nil {
		utils.Sugar.Errorw("listing comments failed", "post_id", id, "err", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	Render(c, http.StatusOK, "story/detail.html", gin.H{
		"Title":    post.Title,
		"Post":     post,
		"Comments": buildCommentTree(comments),
	})
}

func (h *StoryHandler) CreateComment(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))
	text := c.PostForm("comment")

	var parentID *uint
	if raw := c.PostForm("parent_comment_id"); raw != "" {
		id := utils.StringToUint(raw)
		parentID = &id
	}

	_, err := h.submit.SubmitComment(middleware.Token(c), postID, text, parentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrUnknownAuthor):
			c.Redirect(http.StatusFound, "/login")
		case errors.Is(err, services.ErrUnknownPost):
			RenderError(c, http.StatusNotFound, "Post not found")
		case errors.Is(err, services.ErrInvalidParent):
			RenderError(c, http.StatusBadRequest, "The comment you are replying to does not belong to this post")
		case errors.Is(err, services.ErrInvalidInput):
			c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", postID))
		default:
			utils.Sugar.Errorw("submitting comment failed", "post_id", postID, "err", err)
			RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		}
		return
	}

	utils.GetCache().Delete(indexCacheKey)
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", postID))
}

// CommentNode is a comment prepared for rendering, with its replies attached.
type CommentNode struct {
	models.Comment
	ContentHTML template.HTML
	Children    []*CommentNode
}

// buildCommentTree reassembles the reply forest from the flat, insertion-
// ordered list the repository returns: one arena of nodes indexed by id,
// children appended in input order. A comment whose parent is missing from
// the list is kept as a root rather than dropped.
func buildCommentTree(comments []models.Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	ordered := make([]*CommentNode, 0, len(comments))
	for i := range comments {
		n := &CommentNode{
			Comment:     comments[i],
			ContentHTML: utils.RenderMarkdown(comments[i].Content),
		}
		nodes[comments[i].ID] = n
		ordered = append(ordered, n)
	}

	var roots []*CommentNode
	for _, n := range ordered {
		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
