package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"leaseboard/internal/common"
	"leaseboard/internal/middleware"
	"leaseboard/internal/models"
	"leaseboard/internal/services"

	"github.com/labstack/echo/v4"
)

type UploadHandlers struct {
	propertyService services.PropertyService
	storage         services.StorageService
}

func NewUploadHandlers(propertyService services.PropertyService, storage services.StorageService) *UploadHandlers {
	return &UploadHandlers{propertyService: propertyService, storage: storage}
}

// UploadResult reports the outcome per submitted file.
type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// UploadImages accepts a multipart batch. Files past the per-listing cap
// are dropped with a per-file error; each accepted file must be an image
// under the size limit.
func (h *UploadHandlers) UploadImages(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	ctx := c.Request().Context()
	property, err := h.propertyService.GetByID(ctx, userID, propertyID)
	if err != nil {
		return respondError(c, err, "property")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return common.SendClientError(c, "Invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["images"]
	}
	if len(files) == 0 {
		return common.SendValidationError(c, "no files submitted")
	}

	slots := models.MaxImagesPerUnit - len(property.Images)
	results := make([]UploadResult, 0, len(files))
	var uploaded []string

	for _, file := range files {
		result := UploadResult{Filename: file.Filename}

		if len(uploaded) >= slots {
			result.Error = fmt.Sprintf("listing already carries the maximum of %d images", models.MaxImagesPerUnit)
			results = append(results, result)
			continue
		}
		if file.Size > services.MaxImageSize {
			result.Error = "file exceeds the 10 MB limit"
			results = append(results, result)
			continue
		}
		contentType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			result.Error = "only image files are accepted"
			results = append(results, result)
			continue
		}

		src, err := file.Open()
		if err != nil {
			result.Error = "failed to read file"
			results = append(results, result)
			continue
		}
		objectName := services.ImageObjectName(userID, propertyID, file.Filename)
		url, err := h.storage.UploadImage(ctx, objectName, contentType, src, file.Size)
		src.Close()
		if err != nil {
			result.Error = "upload failed"
			results = append(results, result)
			continue
		}
		result.URL = url
		results = append(results, result)
		uploaded = append(uploaded, url)
	}

	if len(uploaded) > 0 {
		property, err = h.propertyService.AppendImages(ctx, userID, propertyID, uploaded)
		if err != nil {
			return respondError(c, err, "property")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": results,
		"images":  property.Images,
	})
}

type PresignedUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// PresignedUpload hands the client a direct PUT URL plus the final public
// URL it should register once the upload completes.
func (h *UploadHandlers) PresignedUpload(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	var req PresignedUploadRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Filename == "" {
		return common.SendValidationError(c, "filename is required")
	}

	ctx := c.Request().Context()
	if _, err := h.propertyService.GetByID(ctx, userID, propertyID); err != nil {
		return respondError(c, err, "property")
	}

	objectName := services.ImageObjectName(userID, propertyID, req.Filename)
	uploadURL, err := h.storage.PresignedPutURL(ctx, objectName, 15*time.Minute)
	if err != nil {
		return common.SendServerError(c, "Failed to create upload URL")
	}
	publicURL, err := h.storage.PresignedGetURL(ctx, objectName, 7*24*time.Hour)
	if err != nil {
		return common.SendServerError(c, "Failed to create public URL")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"upload_url": uploadURL,
		"public_url": publicURL,
		"object_key": objectName,
	})
}

func (h *UploadHandlers) ListImages(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	property, err := h.propertyService.GetByID(c.Request().Context(), userID, propertyID)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"images": property.Images,
		"count":  len(property.Images),
	})
}

// DeleteImage removes the object from the bucket and the URL from the
// listing record. The object key is the trailing wildcard segment.
func (h *UploadHandlers) DeleteImage(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	objectKey := c.Param("*")
	if objectKey == "" {
		return common.SendValidationError(c, "image key is required")
	}

	ctx := c.Request().Context()
	property, err := h.propertyService.GetByID(ctx, userID, propertyID)
	if err != nil {
		return respondError(c, err, "property")
	}

	var target string
	for _, img := range property.Images {
		if strings.Contains(img, objectKey) {
			target = img
			break
		}
	}
	if target == "" {
		return common.SendNotFoundError(c, "image")
	}

	if err := h.storage.DeleteImage(ctx, objectKey); err != nil {
		return common.SendServerError(c, "Failed to delete image from storage")
	}
	property, err = h.propertyService.RemoveImage(ctx, userID, propertyID, target)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Image deleted",
		"images":  property.Images,
	})
}

type ReorderImagesRequest struct {
	Images []string `json:"images"`
}

func (h *UploadHandlers) ReorderImages(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	var req ReorderImagesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	property, err := h.propertyService.ReorderImages(c.Request().Context(), userID, propertyID, req.Images)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"images": property.Images,
	})
}
