// Package authority derives the program's non-human signing capabilities.
//
// A derived authority is a pure function of a fixed label and the deployed
// program's identity. There is no private key behind it: any code constructed
// with the Provider can act as the authority, and no external caller can
// forge one because Grant values can only be minted here.
package authority

import (
	"crypto/sha256"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// Label names a derived capability.
type Label string

const (
	MintAuthority        Label = "mint_authority"
	VaultAuthority       Label = "vault_authority"
	FreezeAuthority      Label = "freeze_authority"
	RedeemVaultAuthority Label = "redeem_vault_authority"

	programData Label = "program_data"
)

const derivationDomain = "hastra/vault-mint/authority/v1"

// Derive computes the capability reference for label under the given program
// identity. The same (program, label) pair always yields the same principal.
func Derive(program domain.Principal, label Label) domain.Principal {
	h := sha256.New()
	h.Write([]byte(derivationDomain))
	h.Write([]byte(label))
	h.Write(program.Bytes())
	var out domain.Principal
	copy(out[:], h.Sum(nil))
	return out
}

// ProgramDataAddress derives the address the deployment metadata record must
// live at. The administrator guard uses it to reject substituted records.
func ProgramDataAddress(program domain.Principal) domain.Principal {
	return Derive(program, programData)
}

// Grant proves the holder may act as a derived authority. Fields are
// unexported so only Provider.SignAs can mint a valid one; the zero value is
// rejected by the ledger.
type Grant struct {
	principal domain.Principal
}

// Principal returns the derived authority the grant acts as.
func (g Grant) Principal() domain.Principal { return g.principal }

// Valid reports whether the grant was minted by a Provider.
func (g Grant) Valid() bool { return !g.principal.IsZero() }

// Provider mints grants for one program's derived authorities. It is handed
// to services at wiring time; nothing outside the process can obtain one.
type Provider struct {
	program domain.Principal
}

func NewProvider(program domain.Principal) *Provider {
	return &Provider{program: program}
}

// Program returns the owning program identity.
func (p *Provider) Program() domain.Principal { return p.program }

// Authority returns the derived principal for label without granting the
// right to act as it.
func (p *Provider) Authority(label Label) domain.Principal {
	return Derive(p.program, label)
}

// SignAs returns a proof of authority over the derived principal for label.
func (p *Provider) SignAs(label Label) Grant {
	return Grant{principal: Derive(p.program, label)}
}
