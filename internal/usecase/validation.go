package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// ValidateEmail checks address syntax.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: invalid email %q", domainErrors.ErrValidation, email)
	}
	return nil
}

// ParseProduct validates required fields and coerces numeric ones.
func ParseProduct(in model.ProductInput) (model.Product, error) {
	in = trimProductInput(in)
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return model.Product{}, fmt.Errorf("%w: %s is required", domainErrors.ErrValidation, fieldErrs[0].Field())
		}
		return model.Product{}, fmt.Errorf("%w: %v", domainErrors.ErrValidation, err)
	}

	qty, err := strconv.Atoi(in.Quantity)
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: quantity must be an integer", domainErrors.ErrValidation)
	}
	if qty < 1 {
		return model.Product{}, fmt.Errorf("%w: quantity must be positive", domainErrors.ErrValidation)
	}
	price, err := parseMoney("price", in.Price)
	if err != nil {
		return model.Product{}, err
	}
	shopDiscount, err := parseMoney("discount_in_shop", *in.DiscountInShop)
	if err != nil {
		return model.Product{}, err
	}

	return model.Product{
		ShopLink:       in.ShopLink,
		ProductLink:    in.ProductLink,
		VendorCode:     in.VendorCode,
		Name:           in.Name,
		Color:          in.Color,
		Size:           in.Size,
		Quantity:       qty,
		Price:          price,
		DiscountCode:   in.DiscountCode,
		DiscountInShop: shopDiscount,
		Note:           in.Note,
	}, nil
}

func trimProductInput(in model.ProductInput) model.ProductInput {
	in.ShopLink = strings.TrimSpace(in.ShopLink)
	in.ProductLink = strings.TrimSpace(in.ProductLink)
	in.VendorCode = strings.TrimSpace(in.VendorCode)
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)
	in.Size = strings.TrimSpace(in.Size)
	in.Quantity = strings.TrimSpace(in.Quantity)
	in.Price = strings.TrimSpace(in.Price)
	in.DiscountCode = strings.TrimSpace(in.DiscountCode)
	if in.DiscountInShop != nil {
		v := strings.TrimSpace(*in.DiscountInShop)
		in.DiscountInShop = &v
	}
	return in
}

// parseMoney treats a blank value as zero and rejects negative amounts.
func parseMoney(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a number", domainErrors.ErrValidation, field)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s must not be negative", domainErrors.ErrValidation, field)
	}
	return v, nil
}
