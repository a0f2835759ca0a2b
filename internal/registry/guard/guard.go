// Package guard binds sensitive configuration changes to the deployment's
// recorded upgrade authority. Operational administrators cannot pass it, so
// no administrator can expand their own privileges.
package guard

import (
	"context"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// DeploymentStore resolves deployment metadata records by address.
type DeploymentStore interface {
	Find(ctx context.Context, address domain.Principal) (*models.Deployment, error)
}

// Guard validates that a caller is the program's upgrade authority.
type Guard struct {
	program     domain.Principal
	deployments DeploymentStore
}

func New(program domain.Principal, deployments DeploymentStore) *Guard {
	return &Guard{program: program, deployments: deployments}
}

// RequireUpgradeAuthority loads the deployment record at the address derived
// from the program identity and validates the caller against it.
func (g *Guard) RequireUpgradeAuthority(ctx context.Context, caller domain.Principal) error {
	address := authority.ProgramDataAddress(g.program)
	dep, err := g.deployments.Find(ctx, address)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidProgramData, "deployment metadata record not found at derived address")
	}
	return Validate(g.program, dep, caller)
}

// Validate checks a claimed deployment record against the program identity
// and the caller. Check order: record authenticity, authority presence,
// signer presence, authority match.
func Validate(program domain.Principal, dep *models.Deployment, caller domain.Principal) error {
	if dep == nil || dep.Address != authority.ProgramDataAddress(program) {
		return dErrors.New(dErrors.CodeInvalidProgramData, "deployment metadata record does not match derived address")
	}
	if dep.UpgradeAuthority == nil {
		return dErrors.New(dErrors.CodeNoUpgradeAuthority, "deployment has no upgrade authority")
	}
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeMissingSigner, "caller did not sign the request")
	}
	if *dep.UpgradeAuthority != caller {
		return dErrors.New(dErrors.CodeInvalidUpgradeAuthority, "caller is not the upgrade authority")
	}
	return nil
}
