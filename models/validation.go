package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobuffalo/validate/v3"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

// Model validation tool
var mValidate *validator.Validate

var fieldValidators = map[string]func(validator.FieldLevel) bool{
	"accountType": validateAccountType,
	"appRole":     validateAppRole,
	"billingType": validateBillingType,
	"brDocument":  validateBrDocument,
	"pixKeyType":  validatePixKeyType,
}

func validateModel(m interface{}) *validate.Errors {
	vErrs := validate.NewErrors()

	if err := mValidate.Struct(m); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			vErrs.Add(err.StructNamespace(), err.Error())
		}
	}
	return vErrs
}

// flattenPopErrors - pop validation errors are complex structures, this flattens them to a simple string
func flattenPopErrors(popErrs *validate.Errors) string {
	var msgs []string
	for key, val := range popErrs.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", key, strings.Join(val, ", ")))
	}
	msg := strings.Join(msgs, " |")
	return msg
}

func validateAccountType(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.AccountType); ok {
		_, valid := ValidAccountTypes[value]
		return valid
	}
	return false
}

func validateAppRole(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(UserAppRole); ok {
		_, valid := validUserAppRoles[value]
		return valid
	}
	return false
}

func validateBillingType(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(BillingType); ok {
		_, valid := ValidBillingTypes[value]
		return valid
	}
	return false
}

func validateBrDocument(field validator.FieldLevel) bool {
	return domain.IsValidDocument(field.Field().String())
}

func validatePixKeyType(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.PixKeyType); ok {
		_, valid := ValidPixKeyTypes[value]
		return valid
	}
	return false
}

// accountStructLevelValidation checks the PIX key format against the key
// type: a CPF/CNPJ key must carry valid check digits, an email key must be
// shaped like an address, a phone key must be 14 to 20 characters, and a
// random key 1 to 72.
func accountStructLevelValidation(sl validator.StructLevel) {
	account, ok := sl.Current().Interface().(Account)
	if !ok {
		panic("accountStructLevelValidation registered to a type other than Account")
	}

	if account.Type != api.AccountTypePix {
		return
	}

	switch account.PixKeyType {
	case api.PixKeyTypeCpfCnpj:
		if !validPixDocumentKey(account.PixKey) {
			sl.ReportError(account.PixKey, "pix_key", "PixKey", "pix_key_invalid_document", "")
		}
	case api.PixKeyTypeEmail:
		if !domain.IsValidEmail(account.PixKey) {
			sl.ReportError(account.PixKey, "pix_key", "PixKey", "pix_key_invalid_email", "")
		}
	case api.PixKeyTypePhone:
		if len(account.PixKey) < 14 || len(account.PixKey) > 20 {
			sl.ReportError(account.PixKey, "pix_key", "PixKey", "pix_key_invalid_phone", "")
		}
	case api.PixKeyTypeRandom:
		if len(account.PixKey) < 1 || len(account.PixKey) > 72 {
			sl.ReportError(account.PixKey, "pix_key", "PixKey", "pix_key_invalid_random", "")
		}
	}
}

// validPixDocumentKey accepts exactly a 14-character formatted CPF or an
// 18-character formatted CNPJ, both with valid check digits.
func validPixDocumentKey(key string) bool {
	switch len(key) {
	case 14:
		return domain.IsValidCPF(key)
	case 18:
		return domain.IsValidCNPJ(key)
	}
	return false
}

// subsidiaryStructLevelValidation checks the state registration against the
// issuing state's rule.
func subsidiaryStructLevelValidation(sl validator.StructLevel) {
	subsidiary, ok := sl.Current().Interface().(Subsidiary)
	if !ok {
		panic("subsidiaryStructLevelValidation registered to a type other than Subsidiary")
	}

	if subsidiary.StateRegistration == "" {
		return
	}

	if !domain.IsValidStateRegistration(subsidiary.State, subsidiary.StateRegistration) {
		sl.ReportError(subsidiary.StateRegistration, "state_registration", "StateRegistration",
			"state_registration_invalid", "")
	}
}

// vehicleStructLevelValidation checks the VIN check digit for model years
// that carry one.
func vehicleStructLevelValidation(sl validator.StructLevel) {
	vehicle, ok := sl.Current().Interface().(Vehicle)
	if !ok {
		panic("vehicleStructLevelValidation registered to a type other than Vehicle")
	}

	if vehicle.Vin == "" || vehicle.ModelYear < 1981 {
		return
	}

	if !domain.IsValidVIN(vehicle.Vin) {
		sl.ReportError(vehicle.Vin, "vin", "Vin", "vin_invalid", "")
	}
}

func displacementTierStructLevelValidation(sl validator.StructLevel) {
	tier, ok := sl.Current().Interface().(DisplacementTier)
	if !ok {
		panic("displacementTierStructLevelValidation registered to a type other than DisplacementTier")
	}

	if tier.ToKm <= tier.FromKm {
		sl.ReportError(tier.ToKm, "to_km", "ToKm", "tier_band_inverted", "")
	}
}
