package bridge

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type InitOptions struct {
	AuthToken string
	Region    string
}

type initOptionsInput struct {
	AuthToken *string `mapstructure:"authToken" validate:"required"`
	Region    *string `mapstructure:"region" validate:"required"`
}

type callRequestInput struct {
	LanguageFromID *int                   `mapstructure:"languageFromId" validate:"required"`
	LanguageToID   *int                   `mapstructure:"languageToId" validate:"required"`
	ServiceTypeID  *int                   `mapstructure:"serviceTypeId" validate:"required"`
	GenderID       *int                   `mapstructure:"genderId"`
	Data           []additionalFieldInput `mapstructure:"data" validate:"dive"`
}

type additionalFieldInput struct {
	Key   *string `mapstructure:"key" validate:"required"`
	Value *string `mapstructure:"value" validate:"required"`
}

type callDetailsInput struct {
	CallID *int64 `mapstructure:"callId" validate:"required"`
}

type chatInput struct {
	Text *string `mapstructure:"text" validate:"required"`
}

type localRendererInput struct {
	Handle *string `mapstructure:"handle" validate:"required"`
}

type remoteRendererInput struct {
	Handle   *string `mapstructure:"handle" validate:"required"`
	Identity *string `mapstructure:"identity" validate:"required"`
}

// ThirdPartyParams carries the arguments of the third-party operations.
// Missing keys decode to zero values; the bridge validates them only when a
// call is active.
type ThirdPartyParams struct {
	Phone    string `mapstructure:"phone"`
	Identity string `mapstructure:"identity"`
	Mute     bool   `mapstructure:"mute"`
}

type RendererParams struct {
	Handle   string
	Identity string
}

func DecodeInitOptions(raw map[string]any) (InitOptions, error) {
	var in initOptionsInput
	if err := decodeParams(raw, &in); err != nil {
		return InitOptions{}, err
	}
	return InitOptions{AuthToken: *in.AuthToken, Region: *in.Region}, nil
}

func DecodeCallRequest(raw map[string]any) (engine.CallRequest, error) {
	var in callRequestInput
	if err := decodeParams(raw, &in); err != nil {
		return engine.CallRequest{}, err
	}
	req := engine.CallRequest{
		LanguageFromID: *in.LanguageFromID,
		LanguageToID:   *in.LanguageToID,
		ServiceTypeID:  *in.ServiceTypeID,
		GenderID:       in.GenderID,
	}
	for _, f := range in.Data {
		req.Data = append(req.Data, engine.AdditionalField{Key: *f.Key, Value: *f.Value})
	}
	return req, nil
}

func DecodeCallDetailsParams(raw map[string]any) (int64, error) {
	var in callDetailsInput
	if err := decodeParams(raw, &in); err != nil {
		return 0, err
	}
	return *in.CallID, nil
}

func DecodeChatParams(raw map[string]any) (string, error) {
	var in chatInput
	if err := decodeParams(raw, &in); err != nil {
		return "", err
	}
	return *in.Text, nil
}

// DecodeLocalRendererParams reads the handle of attachLocalRenderer.
func DecodeLocalRendererParams(raw map[string]any) (RendererParams, error) {
	var in localRendererInput
	if err := decodeParams(raw, &in); err != nil {
		return RendererParams{}, err
	}
	return RendererParams{Handle: *in.Handle}, nil
}

// DecodeRemoteRendererParams reads the handle and participant identity of
// attachRemoteRenderer. Both are required.
func DecodeRemoteRendererParams(raw map[string]any) (RendererParams, error) {
	var in remoteRendererInput
	if err := decodeParams(raw, &in); err != nil {
		return RendererParams{}, err
	}
	if *in.Identity == "" {
		return RendererParams{}, newError(KindValidationFailure, "identity must not be empty")
	}
	return RendererParams{Handle: *in.Handle, Identity: *in.Identity}, nil
}

// DecodeFlag reads a required boolean argument.
func DecodeFlag(raw map[string]any, key string) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return false, newError(KindValidationFailure, key+" is required")
	}
	b, ok := v.(bool)
	if !ok {
		return false, newError(KindValidationFailure, key+" must be a boolean")
	}
	return b, nil
}

func DecodeThirdPartyParams(raw map[string]any) ThirdPartyParams {
	var out ThirdPartyParams
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out
	}
	// Partially decoded values are kept on purpose.
	_ = dec.Decode(raw)
	return out
}

func decodeParams(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: integralNumberHook,
		Result:     out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return newError(KindValidationFailure, err.Error())
	}
	if err := validate.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newError(KindValidationFailure, err.Error())
	}
	fe := verrs[0]
	_, key, _ := strings.Cut(fe.Namespace(), ".")
	if fe.Tag() == "required" {
		return newError(KindValidationFailure, fmt.Sprintf("%s is required", key))
	}
	return newError(KindValidationFailure, fmt.Sprintf("%s is invalid", key))
}

// integralNumberHook rejects fractional numbers for integer fields. JSON
// numbers arrive as float64.
func integralNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 && from.Kind() != reflect.Float32 {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) || f < -(1<<63) || f >= 1<<63 {
		return nil, fmt.Errorf("expected an integer, got %v", f)
	}
	return int64(f), nil
}
