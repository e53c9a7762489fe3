package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/resto-backoffice/internal/domain/inventory"
	"github.com/jhoicas/resto-backoffice/pkg/config"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

func TestPolicyFromConfig(t *testing.T) {
	p := PolicyFromConfig(config.PolicyConfig{
		MeatGramsPerRoll: 100, RollsFlagThreshold: 4, RollsHighThreshold: 15,
		MeatFlagThresholdGrams: 400, MeatHighThresholdGrams: 1200,
		DrinkFlagThreshold: 2, DrinkHighThreshold: 8,
		RiskPerFlag: 25, RiskCap: 90, DrinkKeys: "start",
	})
	assert.Equal(t, inventory.Policy{
		MeatGramsPerRoll: 100, RollsFlagThreshold: 4, RollsHighThreshold: 15,
		MeatFlagThresholdGrams: 400, MeatHighThresholdGrams: 1200,
		DrinkFlagThreshold: 2, DrinkHighThreshold: 8,
		RiskPerFlag: 25, RiskCap: 90, DrinkKeys: inventory.DrinkKeysStart,
	}, p)

	assert.Equal(t, inventory.DrinkKeysUnion, PolicyFromConfig(config.PolicyConfig{DrinkKeys: "otra"}).DrinkKeys)
}

func TestNotifier_SinSMTP_EsNilInterfaz(t *testing.T) {
	n := Notifier(config.MailConfig{}, logger.Nop())
	assert.True(t, n == nil, "debe ser nil sin tipo para que el pipeline lo detecte")

	n = Notifier(config.MailConfig{Host: "smtp.local", Port: 587, Recipients: []string{"ops@resto.local"}}, logger.Nop())
	assert.NotNil(t, n)
}
