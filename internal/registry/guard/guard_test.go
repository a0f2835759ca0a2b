package guard

import (
	"context"
	"testing"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/store"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

func deployment(program domain.Principal, upgradeAuthority *domain.Principal) *models.Deployment {
	return &models.Deployment{
		Address:          authority.ProgramDataAddress(program),
		Program:          program,
		UpgradeAuthority: upgradeAuthority,
	}
}

func TestValidateAcceptsUpgradeAuthority(t *testing.T) {
	program := domain.NewPrincipal()
	owner := domain.NewPrincipal()

	if err := Validate(program, deployment(program, &owner), owner); err != nil {
		t.Fatalf("expected validation to pass: %v", err)
	}
}

func TestValidateRejectsSubstitutedRecord(t *testing.T) {
	program := domain.NewPrincipal()
	owner := domain.NewPrincipal()

	forged := deployment(program, &owner)
	forged.Address = domain.NewPrincipal()

	err := Validate(program, forged, owner)
	if !dErrors.HasCode(err, dErrors.CodeInvalidProgramData) {
		t.Fatalf("expected invalid_program_data, got %v", err)
	}
}

func TestValidateRejectsMissingUpgradeAuthority(t *testing.T) {
	program := domain.NewPrincipal()

	err := Validate(program, deployment(program, nil), domain.NewPrincipal())
	if !dErrors.HasCode(err, dErrors.CodeNoUpgradeAuthority) {
		t.Fatalf("expected no_upgrade_authority, got %v", err)
	}
}

func TestValidateRejectsUnsignedCaller(t *testing.T) {
	program := domain.NewPrincipal()
	owner := domain.NewPrincipal()

	err := Validate(program, deployment(program, &owner), domain.Principal{})
	if !dErrors.HasCode(err, dErrors.CodeMissingSigner) {
		t.Fatalf("expected missing_signer, got %v", err)
	}
}

func TestValidateRejectsWrongCaller(t *testing.T) {
	program := domain.NewPrincipal()
	owner := domain.NewPrincipal()

	err := Validate(program, deployment(program, &owner), domain.NewPrincipal())
	if !dErrors.HasCode(err, dErrors.CodeInvalidUpgradeAuthority) {
		t.Fatalf("expected invalid_upgrade_authority, got %v", err)
	}
}

func TestRequireUpgradeAuthorityLoadsDerivedRecord(t *testing.T) {
	program := domain.NewPrincipal()
	owner := domain.NewPrincipal()
	deployments := store.NewInMemoryDeployments()
	g := New(program, deployments)
	ctx := context.Background()

	// No record installed yet.
	if err := g.RequireUpgradeAuthority(ctx, owner); !dErrors.HasCode(err, dErrors.CodeInvalidProgramData) {
		t.Fatalf("expected invalid_program_data for missing record, got %v", err)
	}

	if err := deployments.Put(ctx, deployment(program, &owner)); err != nil {
		t.Fatalf("put deployment: %v", err)
	}
	if err := g.RequireUpgradeAuthority(ctx, owner); err != nil {
		t.Fatalf("expected upgrade authority to pass: %v", err)
	}
	if err := g.RequireUpgradeAuthority(ctx, domain.NewPrincipal()); !dErrors.HasCode(err, dErrors.CodeInvalidUpgradeAuthority) {
		t.Fatalf("expected invalid_upgrade_authority, got %v", err)
	}
}
