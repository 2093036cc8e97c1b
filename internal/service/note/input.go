package note

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/heartmarshall/keepnotes/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldsInput carries the editable fields of a note as received from a
// caller. It backs both create and update.
type FieldsInput struct {
	Title    string   `json:"title" validate:"max=500"`
	Content  string   `json:"content" validate:"max=50000"`
	Color    string   `json:"color" validate:"max=64"`
	Priority string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags     []string `json:"tags" validate:"max=50,dive,max=64"`
}

// Validate checks all fields and collects all errors. A note needs a title
// or some content.
func (i FieldsInput) Validate() error {
	errs := structErrors(i)
	if strings.TrimSpace(i.Title) == "" && strings.TrimSpace(i.Content) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "title or content required"})
	}
	return domain.NewValidationErrors(errs)
}

// Fields converts the input to note fields, defaulting the color.
func (i FieldsInput) Fields() domain.NoteFields {
	color := strings.TrimSpace(i.Color)
	if color == "" {
		color = domain.DefaultColor
	}
	return domain.NoteFields{
		Title:    i.Title,
		Content:  i.Content,
		Color:    color,
		Priority: domain.Priority(strings.TrimSpace(i.Priority)),
		Tags:     i.Tags,
	}.Normalized()
}

// PriorityInput changes a note's priority.
type PriorityInput struct {
	Priority string `json:"priority" validate:"required,oneof=low medium high"`
}

// Validate checks all fields and collects all errors.
func (i PriorityInput) Validate() error {
	return domain.NewValidationErrors(structErrors(i))
}

// TagsInput replaces a note's tags.
type TagsInput struct {
	Tags []string `json:"tags" validate:"max=50,dive,max=64"`
}

// Validate checks all fields and collects all errors.
func (i TagsInput) Validate() error {
	return domain.NewValidationErrors(structErrors(i))
}

func structErrors(v any) []domain.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath strips the struct name from the namespace: "FieldsInput.tags[2]"
// becomes "tags[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("max %s items", fe.Param())
		}
		return fmt.Sprintf("max %s characters", fe.Param())
	}
	return "invalid value"
}
