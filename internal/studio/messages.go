package studio

import (
	"context"
	"errors"
	"fmt"

	"github.com/DuongTienDung77/Ultra8K/internal/gallery"
	"github.com/DuongTienDung77/Ultra8K/internal/image"
	"github.com/DuongTienDung77/Ultra8K/internal/provider"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

const (
	msgEmptyPrompt  = "Vui lòng nhập mô tả hoặc tải ảnh tham chiếu."
	msgNotAnImage   = "Vui lòng chọn một tệp hình ảnh hợp lệ."
	msgQuota        = "API Quota Exceeded. You have used your daily limit. Please check your Google AI/Gemini plan and billing details, or try again later."
	msgInvalidKey   = "Khóa API không hợp lệ hoặc không tìm thấy. Vui lòng chọn hoặc nhập lại khóa API của bạn."
	msgNoImages     = "The model did not return any images. This may be due to the safety filter. Please modify your prompt and try again."
	msgStorageFull  = "Could not save image to gallery. Your storage is full."
	msgBusy         = "Another action is still running. Please wait for it to finish."
	msgDecode       = "Failed to load image for processing."
	msgRenderFailed = "Could not create the image canvas."
	msgCancelled    = "The action was cancelled."
	msgUnknown      = "Đã xảy ra lỗi không xác định."
)

// inlineErrors are reported with their own text.
var inlineErrors = []error{
	ErrNoSource, ErrNoPortrait, ErrNothingToRetry,
	ErrUnknownShot, ErrUnknownTier, ErrUnknownPost,
	ErrInvalidTarget, ErrInvalidRating, ErrModelMismatch,
	models.ErrInvalidAspectRatio, models.ErrInvalidFormat, models.ErrUnsupportedModel,
	models.ErrReferenceRequired, models.ErrReferenceUnsupported,
}

var noImageMessages = map[Action]string{
	ActionGenerate:     msgNoImages,
	ActionBeautify:     "The beautify process failed to return an image. Please try again.",
	ActionPortrait:     "The portrait generation failed to return an image. Please try again.",
	ActionPostSource:   "Applying the preset failed to return an image. Please try again.",
	ActionPostPortrait: "Applying the preset failed to return an image. Please try again.",
}

// UserMessage converts an action error into the text shown to the user.
func UserMessage(err error) string {
	return UserMessageFor(ActionGenerate, err)
}

// UserMessageFor is UserMessage with the empty-result wording of action a.
func UserMessageFor(a Action, err error) string {
	var apiErr *provider.APIError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrEmptyPrompt):
		return msgEmptyPrompt
	case errors.Is(err, models.ErrNotAnImage):
		return msgNotAnImage
	case errors.Is(err, provider.ErrQuotaExceeded):
		return msgQuota
	case errors.Is(err, provider.ErrInvalidKey):
		return msgInvalidKey
	case errors.Is(err, provider.ErrNoImageReturned):
		if msg, ok := noImageMessages[a]; ok {
			return msg
		}
		return msgNoImages
	case errors.As(err, &apiErr):
		return "An API error occurred: " + apiErr.Message
	case errors.Is(err, image.ErrImageDecode):
		return msgDecode
	case errors.Is(err, image.ErrRenderSurface):
		return msgRenderFailed
	case errors.Is(err, gallery.ErrStorageFull):
		return msgStorageFull
	case errors.Is(err, ErrBusy):
		return msgBusy
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return msgCancelled
	case err.Error() == "":
		return msgUnknown
	}
	for _, target := range inlineErrors {
		if errors.Is(err, target) {
			return err.Error()
		}
	}
	return fmt.Sprintf("Failed to generate images. Please try again. (%v)", err)
}
