package validator

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	boardNamePattern = regexp.MustCompile(`^/[a-zA-Z0-9_-]+/$`)
	imageURLPattern  = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif|webp)$`)

	registerOnce sync.Once
)

// IsBoardName reports whether name has the /name/ form.
func IsBoardName(name string) bool {
	return boardNamePattern.MatchString(name)
}

// IsImageURL reports whether url points at a supported image file.
func IsImageURL(url string) bool {
	return imageURLPattern.MatchString(url)
}

// RegisterCustomValidations adds the boardname and imageurl tags to gin's validator.
func RegisterCustomValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Register(v)
	})
}

func Register(v *validator.Validate) {
	_ = v.RegisterValidation("boardname", func(fl validator.FieldLevel) bool {
		return IsBoardName(fl.Field().String())
	})
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return IsImageURL(fl.Field().String())
	})
}

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			message := getFieldErrorMessage(fieldError)
			messages = append(messages, message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "boardname":
		return "Board name must be in format /name/"
	case "imageurl":
		return "Invalid image URL"
	case "alphanumunicode", "excludesall":
		return fmt.Sprintf("%s contains invalid characters", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":    "Username",
		"Email":       "Email",
		"Password":    "Password",
		"Name":        "Board name",
		"Description": "Description",
		"Category":    "Category",
		"BoardID":     "Board",
		"ThreadID":    "Thread",
		"Title":       "Title",
		"Content":     "Content",
		"Tags":        "Tag",
		"Images":      "Image",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
