package handlers

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

var registerOnce sync.Once

// RegisterValidators adds the mood and activity tags to gin's validator engine
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
			return models.Mood(fl.Field().String()).IsValid()
		}); err != nil {
			return
		}
		err = v.RegisterValidation("activity", func(fl validator.FieldLevel) bool {
			return models.ActivityName(fl.Field().String()).IsValid()
		})
	})
	return err
}
