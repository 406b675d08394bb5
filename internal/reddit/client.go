// Package reddit is a minimal Reddit API client: password-grant login,
// listing a submission's comments, replying and editing own posts.
package reddit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/project-tktt/empleos-bot/internal/config"
)

var ErrNoCredentials = errors.New("reddit credentials are not configured")

// Comment is a top-level comment of a submission
type Comment struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Body   string `json:"body"`
}

type Client struct {
	cfg  config.RedditConfig
	http *resty.Client
	auth *resty.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewClient creates a client. Nothing is sent until the first call.
func NewClient(cfg config.RedditConfig) *Client {
	api := resty.New()
	api.SetBaseURL(strings.TrimRight(cfg.APIURL, "/"))
	api.SetHeader("User-Agent", cfg.UserAgent)
	api.SetTimeout(30 * time.Second)

	auth := resty.New()
	auth.SetBaseURL(strings.TrimRight(cfg.AuthURL, "/"))
	auth.SetHeader("User-Agent", cfg.UserAgent)
	auth.SetTimeout(30 * time.Second)

	return &Client{cfg: cfg, http: api, auth: auth}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// Login obtains an access token with the password grant
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(ctx)
}

func (c *Client) login(ctx context.Context) error {
	if c.cfg.ClientID == "" || c.cfg.Username == "" {
		return ErrNoCredentials
	}

	var tok tokenResponse
	res, err := c.auth.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret).
		SetFormData(map[string]string{
			"grant_type": "password",
			"username":   c.cfg.Username,
			"password":   c.cfg.Password,
		}).
		SetResult(&tok).
		Post("/api/v1/access_token")
	if err != nil {
		return fmt.Errorf("request token: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("request token: status %d", res.StatusCode())
	}
	if tok.Error != "" || tok.AccessToken == "" {
		return fmt.Errorf("request token: %q", tok.Error)
	}

	c.token = tok.AccessToken
	// Refresh a minute early
	c.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return nil
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == "" || time.Now().After(c.expiresAt) {
		if err := c.login(ctx); err != nil {
			return nil, err
		}
	}
	return c.http.R().SetContext(ctx).SetAuthToken(c.token), nil
}

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []struct {
			Kind string  `json:"kind"`
			Data Comment `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Comments returns the top-level comments of a submission
func (c *Client) Comments(ctx context.Context, submissionID string) ([]Comment, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	// The response holds two listings: the submission itself and its comments
	var listings []listing
	res, err := req.
		SetPathParam("id", submissionID).
		SetQueryParams(map[string]string{"depth": "1", "limit": "500", "raw_json": "1"}).
		SetResult(&listings).
		Get("/comments/{id}")
	if err != nil {
		return nil, fmt.Errorf("get comments %s: %w", submissionID, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("get comments %s: status %d", submissionID, res.StatusCode())
	}
	if len(listings) < 2 {
		return nil, fmt.Errorf("get comments %s: unexpected response", submissionID)
	}

	var comments []Comment
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		comments = append(comments, child.Data)
	}
	return comments, nil
}

type apiResponse struct {
	JSON struct {
		Errors [][]any `json:"errors"`
	} `json:"json"`
}

func (c *Client) post(ctx context.Context, path, thing, text string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	var out apiResponse
	res, err := req.
		SetFormData(map[string]string{
			"api_type": "json",
			"thing_id": thing,
			"text":     text,
		}).
		SetResult(&out).
		Post(path)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	if res.IsError() {
		return fmt.Errorf("post %s: status %d", path, res.StatusCode())
	}
	if len(out.JSON.Errors) > 0 {
		return fmt.Errorf("post %s: %v", path, out.JSON.Errors)
	}
	return nil
}

// Reply answers a comment in its thread
func (c *Client) Reply(ctx context.Context, commentID, text string) error {
	return c.post(ctx, "/api/comment", "t1_"+commentID, text)
}

// EditPost replaces the body of one of the account's own self posts
func (c *Client) EditPost(ctx context.Context, postID, text string) error {
	return c.post(ctx, "/api/editusertext", "t3_"+postID, text)
}
