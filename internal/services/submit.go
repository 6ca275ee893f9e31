package services

import (
	"errors"
	"fmt"

	"linknest/internal/models"
)

// SubmitService glues session identity to content mutation. Every action
// resolves the acting user once, up front, and uses that identity for the
// rest of the operation.
type SubmitService struct {
	accounts *AccountService
	sessions *SessionService
	content  *ContentService
}

func NewSubmitService(accounts *AccountService, sessions *SessionService, content *ContentService) *SubmitService {
	return &SubmitService{
		accounts: accounts,
		sessions: sessions,
		content:  content,
	}
}

// resolveUser turns a client-held token into a user record. An unverifiable
// token is anonymous; a verified token naming a user that no longer exists is
// a stale session.
func (s *SubmitService) resolveUser(token string) (*models.User, error) {
	username, ok := s.sessions.CurrentUser(token)
	if !ok {
		return nil, ErrUnauthenticated
	}
	user, err := s.accounts.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnknownAuthor
		}
		return nil, err
	}
	return user, nil
}

func (s *SubmitService) SubmitPost(token, title, link string) (*models.Post, error) {
	user, err := s.resolveUser(token)
	if err != nil {
		return nil, err
	}
	return s.content.CreatePost(title, link, user.ID)
}

func (s *SubmitService) SubmitComment(token string, postID uint, text string, parentID *uint) (*models.Comment, error) {
	user, err := s.resolveUser(token)
	if err != nil {
		return nil, err
	}
	return s.content.CreateComment(text, postID, user.ID, parentID)
}

// Login verifies the credentials and, only on success, starts a session by
// issuing a token for the client to hold.
func (s *SubmitService) Login(username, password string) (string, *models.User, error) {
	user, err := s.accounts.Verify(username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.sessions.IssueToken(user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("issuing token: %w", err)
	}
	return token, user, nil
}

// Logout ends a session. Identity lives entirely in the client-held token,
// so there is nothing to revoke server-side; the caller discards the token.
func (s *SubmitService) Logout() {}
