package usecase

import (
	"go.uber.org/fx"

	"github.com/bernardito-luis/eurodelivery/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newLifecycleOptions,
	NewAuthUseCase,
	NewLifecycleUseCase,
	NewNotificationUseCase,
)

func newLifecycleOptions(cfg *config.Config) (LifecycleOptions, error) {
	policy, err := ParseDiscountPolicy(cfg.DiscountPolicy)
	if err != nil {
		return LifecycleOptions{}, err
	}
	mode, err := ParseNotifyMode(cfg.NotifyMode)
	if err != nil {
		return LifecycleOptions{}, err
	}
	return LifecycleOptions{
		Fee:        cfg.OrderFee,
		AdminEmail: cfg.AdminEmail,
		Mode:       mode,
		Pricing:    NewPricingPolicy(policy),
	}, nil
}
