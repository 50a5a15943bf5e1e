package post

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/cache"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/group"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/metrics"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/paginator"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/storage"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/validation"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/web"
)

// IndexFragment names the cached region of the index page.
const IndexFragment = "index_page"

// Handler serves the post pages. Cache holds the rendered index fragment
// for CacheTTL and Media receives uploaded images.
type Handler struct {
	Cache     cache.Store
	CacheTTL  time.Duration
	Media     storage.MediaStore
	MaxUpload int64
}

// Index GET /
func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	key := cache.FragmentKey(IndexFragment, normalizePage(c.Query("page")))

	body, hit, err := h.Cache.Get(ctx, key)
	if err != nil {
		logs.LogJSON("WARN", "Error reading fragment cache", map[string]interface{}{
			"error": err.Error(),
			"route": c.FullPath(),
			"key":   key,
		})
	}
	metrics.RecordFragmentCache(IndexFragment, hit)

	if !hit {
		page, err := paginator.Paginate[Post](FeedQuery(), paginator.FeedPageSize, c.Query("page"), "Author", "Group")
		if err != nil {
			web.ServerError(c, err)
			return
		}
		body, err = web.RenderFragment("index_fragment", gin.H{"page": page})
		if err != nil {
			web.ServerError(c, err)
			return
		}
		if err := h.Cache.Set(ctx, key, body, h.CacheTTL); err != nil {
			logs.LogJSON("WARN", "Error writing fragment cache", map[string]interface{}{
				"error": err.Error(),
				"route": c.FullPath(),
				"key":   key,
			})
		}
	}

	web.Render(c, http.StatusOK, "index.html", gin.H{
		"fragment": template.HTML(body),
	})
}

// NewPost GET|POST /new/
func (h *Handler) NewPost(c *gin.Context) {
	route := c.FullPath()
	viewer := web.CurrentUser(c)

	groups, err := group.All()
	if err != nil {
		web.ServerError(c, err)
		return
	}

	data := gin.H{
		"text_head":   "New post",
		"text_button": "Publish",
		"groups":      groups,
		"form":        PostInput{},
	}

	if c.Request.Method != http.MethodPost {
		web.Render(c, http.StatusOK, "new.html", data)
		return
	}

	h.limitBody(c)
	in, err := BindPost(c)
	data["form"] = in
	if !h.bindOK(c, err, data) {
		return
	}

	valid, fe := ValidatePost(in, groups)
	if fe.Any() {
		data["errors"] = fe
		web.Render(c, http.StatusOK, "new.html", data)
		return
	}

	p := Post{
		Text:     valid.Text,
		AuthorID: viewer.ID,
		GroupID:  valid.GroupID,
	}
	if valid.Image != nil {
		key, err := h.saveImage(c.Request.Context(), valid.Image)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		p.Image = key
		p.ImageURL = h.Media.URL(key)
	}

	if err := Create(&p); err != nil {
		if p.Image != "" {
			h.deleteImage(c, p.Image)
		}
		web.ServerError(c, err)
		return
	}

	metrics.PostsCreated.Inc()
	logs.LogJSON("INFO", "Post created", map[string]interface{}{
		"route":  route,
		"userID": viewer.ID,
		"extra":  fmt.Sprintf("postID : %d", p.ID),
	})
	c.Redirect(http.StatusFound, "/")
}

// PostView GET /:username/:post_id/
func (h *Handler) PostView(c *gin.Context) {
	author, p, ok := loadPost(c)
	if !ok {
		return
	}

	count, err := CountByAuthor(author.ID)
	if err != nil {
		web.ServerError(c, err)
		return
	}
	comments, err := Comments(p.ID)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	web.Render(c, http.StatusOK, "post.html", gin.H{
		"title":       author.DisplayName(),
		"post_author": author,
		"post":        p,
		"count":       count,
		"comments":    comments,
	})
}

// PostEdit GET|POST /:username/:post_id/edit/
func (h *Handler) PostEdit(c *gin.Context) {
	route := c.FullPath()
	viewer := web.CurrentUser(c)

	author, p, ok := loadPost(c)
	if !ok {
		return
	}
	detail := postURL(author, p)

	if viewer.ID != p.AuthorID {
		logs.LogJSON("WARN", "Edit attempt by non-author", map[string]interface{}{
			"route":  route,
			"userID": viewer.ID,
			"extra":  fmt.Sprintf("postID : %d", p.ID),
		})
		c.Redirect(http.StatusFound, detail)
		return
	}

	groups, err := group.All()
	if err != nil {
		web.ServerError(c, err)
		return
	}

	current := PostInput{Text: p.Text}
	if p.GroupID != nil {
		current.Group = strconv.FormatUint(uint64(*p.GroupID), 10)
	}
	data := gin.H{
		"text_head":   "Edit post",
		"text_button": "Save",
		"groups":      groups,
		"post":        p,
		"form":        current,
	}

	if c.Request.Method != http.MethodPost {
		web.Render(c, http.StatusOK, "new.html", data)
		return
	}

	h.limitBody(c)
	in, err := BindPost(c)
	data["form"] = in
	if !h.bindOK(c, err, data) {
		return
	}

	valid, fe := ValidatePost(in, groups)
	if fe.Any() {
		if !in.GroupSet {
			in.Group = current.Group
			data["form"] = in
		}
		data["errors"] = fe
		web.Render(c, http.StatusOK, "new.html", data)
		return
	}

	fields := map[string]interface{}{"text": valid.Text}
	if valid.GroupSet {
		if valid.GroupID != nil {
			fields["group_id"] = *valid.GroupID
		} else {
			fields["group_id"] = nil
		}
	}

	oldImage := p.Image
	if valid.Image != nil {
		key, err := h.saveImage(c.Request.Context(), valid.Image)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		fields["image"] = key
		fields["image_url"] = h.Media.URL(key)
	}

	if err := Update(p, fields); err != nil {
		if key, ok := fields["image"].(string); ok {
			h.deleteImage(c, key)
		}
		web.ServerError(c, err)
		return
	}
	if valid.Image != nil && oldImage != "" {
		h.deleteImage(c, oldImage)
	}

	logs.LogJSON("INFO", "Post edited", map[string]interface{}{
		"route":  route,
		"userID": viewer.ID,
		"extra":  fmt.Sprintf("postID : %d", p.ID),
	})
	c.Redirect(http.StatusFound, detail)
}

// DeletePost POST /:username/:post_id/delete/
func (h *Handler) DeletePost(c *gin.Context) {
	route := c.FullPath()
	viewer := web.CurrentUser(c)

	author, p, ok := loadPost(c)
	if !ok {
		return
	}

	if viewer.ID != p.AuthorID {
		c.Redirect(http.StatusFound, postURL(author, p))
		return
	}

	if err := Delete(p); err != nil {
		web.ServerError(c, err)
		return
	}
	if p.Image != "" {
		h.deleteImage(c, p.Image)
	}

	logs.LogJSON("INFO", "Post deleted", map[string]interface{}{
		"route":  route,
		"userID": viewer.ID,
		"extra":  fmt.Sprintf("postID : %d", p.ID),
	})
	c.Redirect(http.StatusFound, "/"+author.Username+"/")
}

// AddComment GET|POST /:username/:post_id/comment/
func (h *Handler) AddComment(c *gin.Context) {
	route := c.FullPath()
	viewer := web.CurrentUser(c)

	author, p, ok := loadPost(c)
	if !ok {
		return
	}
	detail := postURL(author, p)

	if c.Request.Method != http.MethodPost {
		web.Render(c, http.StatusOK, "comments.html", gin.H{"post": p})
		return
	}

	text, fe := ValidateComment(CommentInput{Text: c.PostForm("text")})
	if fe.Any() {
		logs.LogJSON("WARN", "Invalid comment", map[string]interface{}{
			"route":  route,
			"userID": viewer.ID,
			"error":  fe.Error(),
		})
		c.Redirect(http.StatusFound, detail)
		return
	}

	comment := Comment{Text: text, AuthorID: viewer.ID, PostID: p.ID}
	if err := CreateComment(&comment); err != nil {
		web.ServerError(c, err)
		return
	}

	metrics.CommentsCreated.Inc()
	logs.LogJSON("INFO", "Comment added", map[string]interface{}{
		"route":  route,
		"userID": viewer.ID,
		"extra":  fmt.Sprintf("postID : %d", p.ID),
	})
	c.Redirect(http.StatusFound, detail)
}

// limitBody caps the request body at MaxUpload when set.
func (h *Handler) limitBody(c *gin.Context) {
	if h.MaxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload)
	}
}

// bindOK renders the form again for upload errors and the 500 page for
// anything else. It reports whether the handler may go on.
func (h *Handler) bindOK(c *gin.Context, err error, data gin.H) bool {
	if err == nil {
		return true
	}
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		data["errors"] = fe
		web.Render(c, http.StatusOK, "new.html", data)
		return false
	}
	web.ServerError(c, err)
	return false
}

func (h *Handler) saveImage(ctx context.Context, img *ImageUpload) (string, error) {
	f, err := img.Header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	key := storage.NewKey("posts", img.Header.Filename)
	if err := h.Media.Save(ctx, key, f, img.MIME); err != nil {
		return "", err
	}
	return key, nil
}

// deleteImage logs failures; a stray media object is not worth failing the request.
func (h *Handler) deleteImage(c *gin.Context, key string) {
	if err := h.Media.Delete(c.Request.Context(), key); err != nil {
		logs.LogJSON("ERROR", "Error deleting media", map[string]interface{}{
			"error": err.Error(),
			"route": c.FullPath(),
			"extra": fmt.Sprintf("key : %s", key),
		})
	}
}

// loadPost resolves :username and :post_id, rendering 404 when either is
// unknown or the post belongs to someone else.
func loadPost(c *gin.Context) (*user.User, *Post, bool) {
	author, err := user.FindByUsername(c.Param("username"))
	if err != nil {
		notFoundOr500(c, err, user.ErrNotFound)
		return nil, nil, false
	}

	id, err := strconv.ParseUint(c.Param("post_id"), 10, 0)
	if err != nil {
		web.NotFound(c)
		return nil, nil, false
	}

	p, err := FindByAuthorAndID(author.ID, uint(id))
	if err != nil {
		notFoundOr500(c, err, ErrNotFound)
		return nil, nil, false
	}
	return author, p, true
}

func notFoundOr500(c *gin.Context, err, notFound error) {
	if errors.Is(err, notFound) {
		web.NotFound(c)
		return
	}
	web.ServerError(c, err)
}

func postURL(author *user.User, p *Post) string {
	return fmt.Sprintf("/%s/%d/", author.Username, p.ID)
}

// normalizePage maps anything that is not a positive integer to "1" so
// garbage page values share the first page's cache entry. Numbers too large
// for an int share the "last" entry.
func normalizePage(raw string) string {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return "last"
	}
	if err != nil || n < 1 {
		return "1"
	}
	return strconv.Itoa(n)
}
