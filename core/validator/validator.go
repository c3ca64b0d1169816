package validator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type rule struct {
	tag     string
	fn      validator.Func
	message string
}

// validatorImpl 校验器实现
type validatorImpl struct {
	validator *validator.Validate
	trans     ut.Translator
	rules     []rule
}

// Validate 全局校验器实例，已注册令牌相关规则
var Validate Validator = New()

// 令牌相关的内置规则
var builtinRules = []rule{
	{
		tag:     "paseto_version",
		fn:      oneOf("v1", "v2", "v3"),
		message: "{0} must be one of v1 v2 v3",
	},
	{
		tag:     "paseto_purpose",
		fn:      oneOf("auth", "enc", "seal", "sign"),
		message: "{0} must be one of auth enc seal sign",
	},
}

// New 创建新的校验器实例
func New(opts ...ValidationOption) Validator {
	v := &validatorImpl{
		validator: validator.New(validator.WithRequiredStructEnabled()),
		rules:     append([]rule(nil), builtinRules...),
	}

	// 字段名取 mapstructure / json 标签，与配置文件中的键一致
	v.validator.RegisterTagNameFunc(fieldName)

	for _, opt := range opts {
		opt(v)
	}

	uni := ut.New(en.New())
	v.trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v.validator, v.trans)

	for _, r := range v.rules {
		v.register(r)
	}

	return v
}

func (v *validatorImpl) register(r rule) {
	_ = v.validator.RegisterValidation(r.tag, r.fn)
	_ = v.validator.RegisterTranslation(r.tag, v.trans,
		func(t ut.Translator) error {
			return t.Add(r.tag, r.message, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(r.tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// Struct 校验结构体
func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translateError(v.validator.Struct(s))
}

// StructCtx 带上下文校验结构体
func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translateError(v.validator.StructCtx(ctx, s))
}

// Var 校验单个值
func (v *validatorImpl) Var(field any, tag string) error {
	return v.translateError(v.validator.Var(field, tag))
}

// GetValidator 获取底层的validator实例
func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}

// translateError 翻译错误
func (v *validatorImpl) translateError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErr := &fieldErrorImpl{
			fieldError: fe,
			message:    fe.Translate(v.trans),
		}
		fieldErrors = append(fieldErrors, fieldErr)
		messages = append(messages, fieldErr.message)
	}

	return &validationErrorsImpl{
		fieldErrors: fieldErrors,
		message:     strings.Join(messages, "; "),
	}
}

func fieldName(field reflect.StructField) string {
	for _, key := range []string{"mapstructure", "json"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		var s string
		field := fl.Field()
		switch {
		case field.Kind() == reflect.String:
			s = field.String()
		case field.CanInterface():
			// paseto.Version 等数值类型按 String() 比较
			str, ok := field.Interface().(fmt.Stringer)
			if !ok {
				return false
			}
			s = str.String()
		default:
			return false
		}
		for _, value := range values {
			if s == value {
				return true
			}
		}
		return false
	}
}
