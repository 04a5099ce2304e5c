package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/olxmark/internal/assets"
)

// customRule is a validation tag of the configuration with its English message.
type customRule struct {
	tag     string
	fn      validator.Func
	message string
}

var customRules = []customRule{
	{tag: "file", fn: isFileReadable, message: "{0} must be an existing and readable file"},
	{tag: "gosource", fn: isGoSource, message: "{0} must be a readable .go source file"},
}

const flavorMessage = "{0} must name a flavor of the presets or of markdown.flavor_file"

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, rule := range customRules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s validation: %w", rule.tag, err)
		}
		if err := registerMessage(validate, trans, rule.tag, rule.message); err != nil {
			return nil, nil, err
		}
	}

	validate.RegisterStructValidation(validateFlavors, Config{})
	if err := registerMessage(validate, trans, "flavor", flavorMessage); err != nil {
		return nil, nil, err
	}

	return validate, trans, nil
}

func registerMessage(validate *validator.Validate, trans ut.Translator, tag, message string) error {
	if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return fmt.Errorf("failed to register %s translation: %w", tag, err)
	}
	return nil
}

// isFileReadable opens the file, so permissions are checked for this process.
func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = file.Close()
	return true
}

func isGoSource(fl validator.FieldLevel) bool {
	return filepath.Ext(fl.Field().String()) == ".go" && isFileReadable(fl)
}

// validateFlavors checks both flavor names against the presets. A broken
// flavor file is reported by its own file rule.
func validateFlavors(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	flavors, err := assets.LoadFlavors(cfg.Markdown.FlavorFile)
	if err != nil {
		return
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{name: "markdown.flavor", value: cfg.Markdown.Flavor},
		{name: "server.flavor", value: cfg.Server.Flavor},
	} {
		if field.value == "" {
			continue
		}
		if _, err := flavors.Options(field.value); err != nil {
			sl.ReportError(field.value, field.name, field.name, "flavor", "")
		}
	}
}
