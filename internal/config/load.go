package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/jsonc"

	"github.com/crystal-linux/jade/internal/bootloader"
	"github.com/crystal-linux/jade/internal/desktops"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their name in the document
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	mustRegister("bootloader", func(fl validator.FieldLevel) bool {
		_, err := bootloader.ParseType(fl.Field().String())
		return err == nil
	})
	mustRegister("desktop", func(fl validator.FieldLevel) bool {
		_, err := desktops.ParseDesktop(fl.Field().String())
		return err == nil
	})

	return v
}

// Load reads and parses the configuration file at path. It returns an
// *IOError when the file cannot be read and a *SchemaError when its
// contents are not a valid configuration.
func Load(path string, logger logrus.FieldLogger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	logger.Debugf("[ OK ] Read config file %s", path)

	cfg, err := Parse(data)
	if err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}
	logger.Debugf("[ OK ] Parse config file %s", path)

	return cfg, nil
}

// Parse decodes a configuration document. // and /* */ comments as well as
// trailing commas are allowed.
func Parse(data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after the top level object")
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, validationError(err)
	}

	return doc.toConfig(), nil
}

func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		// drop the "document." prefix
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: missing required field", field))
		case "eq":
			msgs = append(msgs, fmt.Sprintf("%s: unsupported value %v, expected %s", field, fe.Value(), fe.Param()))
		case "bootloader":
			_, perr := bootloader.ParseType(fmt.Sprint(fe.Value()))
			msgs = append(msgs, fmt.Sprintf("%s: %v", field, perr))
		case "desktop":
			_, perr := desktops.ParseDesktop(fmt.Sprint(fe.Value()))
			msgs = append(msgs, fmt.Sprintf("%s: %v", field, perr))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %q validation", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
