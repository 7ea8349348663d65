package contentstore

import (
	"fmt"
	"net/url"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-data/internal/usecase"
)

type contentResponse struct {
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// ConflictError is returned when the repository rejects a write because the
// version token no longer matches the stored blob.
type ConflictError struct {
	StatusCode int
	Token      Token
	Message    string
}

func (e *ConflictError) Error() string {
	token := string(e.Token)
	if token == "" {
		token = "absent"
	}
	return fmt.Sprintf("content version conflict status=%d token=%s: %s", e.StatusCode, token, e.Message)
}

func (e *ConflictError) Is(target error) bool {
	return target == usecase.ErrConflict
}

func normalizeCoordinates(c Coordinates) Coordinates {
	c.Owner = strings.TrimSpace(c.Owner)
	c.Repo = strings.TrimSpace(c.Repo)
	c.Branch = strings.TrimSpace(c.Branch)
	c.Token = strings.TrimSpace(c.Token)
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	return c
}

func (c *Client) repoURL(coords Coordinates) string {
	return fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(coords.Owner), url.PathEscape(coords.Repo))
}

func (c *Client) contentsURL(coords Coordinates, withRef bool) string {
	segments := strings.Split(c.path, "/")
	for i := range segments {
		segments[i] = url.PathEscape(segments[i])
	}
	out := c.repoURL(coords) + "/contents/" + strings.Join(segments, "/")
	if withRef {
		out += "?ref=" + url.QueryEscape(coords.Branch)
	}
	return out
}

// remoteMessage extracts the "message" field GitHub puts in error bodies.
func remoteMessage(body []byte, fallback string) string {
	var decoded errorResponse
	if err := sonic.Unmarshal(body, &decoded); err == nil && strings.TrimSpace(decoded.Message) != "" {
		return decoded.Message
	}
	return fallback
}

func sanitize(value, token string) string {
	if token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}
