package authority

import (
	"testing"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

func TestDeriveIsDeterministic(t *testing.T) {
	program := domain.NewPrincipal()

	a := Derive(program, MintAuthority)
	b := Derive(program, MintAuthority)
	if a != b {
		t.Fatalf("expected identical derivation for same (program, label)")
	}
	if a.IsZero() {
		t.Fatalf("derived authority must not be zero")
	}
}

func TestDeriveSeparatesLabelsAndPrograms(t *testing.T) {
	program := domain.NewPrincipal()
	other := domain.NewPrincipal()

	if Derive(program, MintAuthority) == Derive(program, FreezeAuthority) {
		t.Fatalf("different labels must derive different authorities")
	}
	if Derive(program, MintAuthority) == Derive(other, MintAuthority) {
		t.Fatalf("different programs must derive different authorities")
	}
}

func TestSignAsMatchesDerive(t *testing.T) {
	program := domain.NewPrincipal()
	provider := NewProvider(program)

	grant := provider.SignAs(RedeemVaultAuthority)
	if !grant.Valid() {
		t.Fatalf("expected valid grant from provider")
	}
	if grant.Principal() != Derive(program, RedeemVaultAuthority) {
		t.Fatalf("grant principal must equal derived authority")
	}
}

func TestZeroGrantIsInvalid(t *testing.T) {
	var g Grant
	if g.Valid() {
		t.Fatalf("zero grant must be invalid")
	}
}

func TestProgramDataAddressDiffersFromAuthorities(t *testing.T) {
	program := domain.NewPrincipal()
	pd := ProgramDataAddress(program)
	for _, label := range []Label{MintAuthority, VaultAuthority, FreezeAuthority, RedeemVaultAuthority} {
		if pd == Derive(program, label) {
			t.Fatalf("program data address collided with %s", label)
		}
	}
}
