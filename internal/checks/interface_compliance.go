package checks

import (
	"context"
	"strings"

	"github.com/toolvet/toolvet/internal/descriptor"
)

// requiredOperations maps each operation name a tool must expose to
// the capability interface that carries it.
var requiredOperations = []struct {
	name      string
	satisfied func(module any) bool
}{
	{"execute", func(m any) bool { _, ok := m.(descriptor.Executable); return ok }},
	{"getMetadata", func(m any) bool { _, ok := m.(descriptor.Describable); return ok }},
}

// InterfaceComplianceCheck verifies the tool's capability surface
// exposes every required operation.
type InterfaceComplianceCheck struct{}

func NewInterfaceComplianceCheck() *InterfaceComplianceCheck {
	return &InterfaceComplianceCheck{}
}

func (c *InterfaceComplianceCheck) Name() string { return "interface_compliance" }

func (c *InterfaceComplianceCheck) Run(_ context.Context, tool *descriptor.Tool) (*Result, error) {
	var missing []string
	for _, op := range requiredOperations {
		if tool.Module == nil || !op.satisfied(tool.Module) {
			missing = append(missing, op.name)
		}
	}

	if len(missing) > 0 {
		return Fail(SeverityError, "module missing required methods: "+strings.Join(missing, ", ")), nil
	}
	return Pass("all required methods present"), nil
}
