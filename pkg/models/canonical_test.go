package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalFixtureSetShape(t *testing.T) {
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	set := CanonicalFixtureSet(now, 10950, 10950, "crl_ext")

	names := map[string]string{}
	set.WalkCAs(func(ca CertAuthority, parent string) {
		names[ca.Name] = parent
	})

	assert.Len(t, names, 8)
	assert.Equal(t, "", names["root1-ca"])
	assert.Equal(t, "", names["root2-ca"])
	assert.Equal(t, "", names["root3-ca"])
	assert.Equal(t, "root1-ca", names["inter1A-ca"])
	assert.Equal(t, "root1-ca", names["inter1B-ca"])
	assert.Equal(t, "inter1A-ca", names["inter1A1-ca"])
	assert.Equal(t, "root2-ca", names["inter2A-ca"])
	assert.Equal(t, "root2-ca", names["inter2B-ca"])

	for _, ee := range set.EndEntities {
		assert.Equal(t, "inter1A1-ca", ee.Issuer)
		assert.NoError(t, ee.Validity.Validate())
	}
}

func TestCanonicalFixtureSetWalkOrder(t *testing.T) {
	set := CanonicalFixtureSet(time.Now(), 10, 10, "crl_ext")

	var order []string
	set.WalkCAs(func(ca CertAuthority, parent string) {
		order = append(order, ca.Name)
	})

	// Depth first, root to leaf: every parent appears before its children.
	seen := map[string]bool{}
	for _, name := range order {
		seen[name] = true
	}
	set.WalkCAs(func(ca CertAuthority, parent string) {
		if parent != "" {
			assert.True(t, indexOf(order, parent) < indexOf(order, ca.Name),
				"parent %s must precede %s", parent, ca.Name)
		}
	})
	assert.True(t, seen["inter1A1-ca"])
}

func TestCanonicalFixtureSetExpiredWindow(t *testing.T) {
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	set := CanonicalFixtureSet(now, 10950, 10950, "crl_ext")

	var expired *EndEntity
	for i := range set.EndEntities {
		if set.EndEntities[i].Name == "foo-1A1-expired" {
			expired = &set.EndEntities[i]
		}
	}
	if expired == nil {
		t.Fatal("foo-1A1-expired not present in canonical set")
	}

	assert.Equal(t, Time, expired.Validity.Type)
	assert.Equal(t, now, expired.Validity.NotBefore)
	assert.Equal(t, 10*time.Second, expired.Validity.NotAfter.Sub(expired.Validity.NotBefore))
}

func TestCanonicalFixtureSetStepOrder(t *testing.T) {
	set := CanonicalFixtureSet(time.Now(), 10950, 10950, "crl_ext")

	if assert.Len(t, set.Steps, 5) {
		// Empty CRL strictly before the revocation, populated CRLs after.
		assert.Equal(t, StepGenerateCRL, set.Steps[0].Type)
		assert.Equal(t, "inter1A1-v1-empty.crl", set.Steps[0].CRL.Output)
		assert.Empty(t, set.Steps[0].CRL.Extensions)

		assert.Equal(t, StepRevoke, set.Steps[1].Type)
		assert.Equal(t, "foo-1A1-revoked.crt", set.Steps[1].Revoke.Certificate)

		assert.Equal(t, "inter1A1-v1.crl", set.Steps[2].CRL.Output)
		assert.Empty(t, set.Steps[2].CRL.Extensions)

		assert.Equal(t, "inter1A1-v2.crl", set.Steps[3].CRL.Output)
		assert.Equal(t, "crl_ext", set.Steps[3].CRL.Extensions)

		assert.Equal(t, "inter1A1-v1-expired.crl", set.Steps[4].CRL.Output)
		assert.Equal(t, CRLHours, set.Steps[4].CRL.Validity.Type)
		assert.Equal(t, 1, set.Steps[4].CRL.Validity.Hours)
	}
}

func indexOf(list []string, value string) int {
	for i, item := range list {
		if item == value {
			return i
		}
	}
	return -1
}
