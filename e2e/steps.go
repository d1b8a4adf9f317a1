package e2e

import (
	"github.com/cucumber/godog"

	"visadesk/e2e/steps/common"
	"visadesk/e2e/steps/wizard"
)

// RegisterSteps registers the step definitions of every feature area.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	wizard.RegisterSteps(ctx, tc)
}
