package post

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/group"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/validation"
)

const (
	msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgEmptyFile    = "The submitted file is empty."
	msgTooLarge     = "The uploaded file is too large."
	msgInvalidGroup = "Select a valid choice. That choice is not one of the available choices."

	multipartMemory = 8 << 20
)

// ImageUpload is an uploaded file with its sniffed content type.
type ImageUpload struct {
	Header *multipart.FileHeader
	MIME   string
}

// PostInput is the raw post form. GroupSet is false when the form carried
// no group field at all, in which case an edit keeps the current group.
type PostInput struct {
	Text     string       `form:"text" validate:"required"`
	Group    string       `form:"group"`
	GroupSet bool         `form:"-"`
	Image    *ImageUpload `validate:"-"`
}

// PostData is a validated PostInput.
type PostData struct {
	Text     string
	GroupID  *uint
	GroupSet bool
	Image    *ImageUpload
}

type CommentInput struct {
	Text string `form:"text" validate:"required"`
}

// BindPost reads the post form from the request and sniffs the uploaded
// image, if any. An oversized body yields FieldErrors on "image".
func BindPost(c *gin.Context) (PostInput, error) {
	var in PostInput

	err := c.Request.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			fe := validation.FieldErrors{}
			fe.Add("image", msgTooLarge)
			return in, fe
		}
		return in, fmt.Errorf("parse post form: %w", err)
	}

	in.Text = c.PostForm("text")
	in.Group, in.GroupSet = c.GetPostForm("group")

	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return in, nil
		}
		return in, fmt.Errorf("read image: %w", err)
	}

	upload := &ImageUpload{Header: header}
	if header.Size > 0 {
		f, err := header.Open()
		if err != nil {
			return in, fmt.Errorf("open image: %w", err)
		}
		defer f.Close()

		mt, err := mimetype.DetectReader(f)
		if err != nil {
			return in, fmt.Errorf("sniff image: %w", err)
		}
		upload.MIME = mt.String()
	}
	in.Image = upload
	return in, nil
}

// ValidatePost checks in against the known groups.
func ValidatePost(in PostInput, groups []group.Group) (PostData, validation.FieldErrors) {
	in.Text = strings.TrimSpace(in.Text)

	fe := validation.FieldErrors{}
	if err := validation.ValidateStruct(in); err != nil {
		var verrs validation.FieldErrors
		if !errors.As(err, &verrs) {
			fe.Add("text", err.Error())
		}
		for field, msgs := range verrs {
			for _, m := range msgs {
				fe.Add(field, m)
			}
		}
	}

	data := PostData{Text: in.Text, GroupSet: in.GroupSet}

	if raw := strings.TrimSpace(in.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 0)
		if err != nil || !containsGroup(groups, uint(id)) {
			fe.Add("group", msgInvalidGroup)
		} else {
			gid := uint(id)
			data.GroupID = &gid
		}
	}

	if in.Image != nil {
		switch {
		case in.Image.Header.Size == 0:
			fe.Add("image", msgEmptyFile)
		case !isImage(in.Image.MIME):
			fe.Add("image", msgInvalidImage)
		default:
			data.Image = in.Image
		}
	}

	if fe.Any() {
		return PostData{}, fe
	}
	return data, nil
}

func ValidateComment(in CommentInput) (string, validation.FieldErrors) {
	in.Text = strings.TrimSpace(in.Text)
	if err := validation.ValidateStruct(in); err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			return "", fe
		}
		fe = validation.FieldErrors{}
		fe.Add("text", err.Error())
		return "", fe
	}
	return in.Text, nil
}

func containsGroup(groups []group.Group, id uint) bool {
	for _, g := range groups {
		if g.ID == id {
			return true
		}
	}
	return false
}

// SVG is rejected, it is markup rather than a raster image.
func isImage(mime string) bool {
	return strings.HasPrefix(mime, "image/") && !strings.HasPrefix(mime, "image/svg")
}
