package models

import "time"

// CanonicalFixtureSet returns the reference fixture set consumed by the
// downstream test suite: three CA trees, a good/expired/revoked end-entity
// trio under inter1A1-ca, and the four inter1A1 CRL variants.
//
// now anchors the expired certificate's 10-second validity window; certDays,
// crlDays and the v2 extensions profile name come from the configuration.
func CanonicalFixtureSet(now time.Time, certDays int, crlDays int, crlExtensions string) FixtureSet {
	nowUTC := now.UTC()

	return FixtureSet{
		CAs: []CertAuthority{
			{
				Name: "root1-ca",
				Subordinates: []CertAuthority{
					{
						Name: "inter1A-ca",
						Subordinates: []CertAuthority{
							{Name: "inter1A1-ca"},
						},
					},
					{Name: "inter1B-ca"},
				},
			},
			{
				Name: "root2-ca",
				Subordinates: []CertAuthority{
					{Name: "inter2A-ca"},
					{Name: "inter2B-ca"},
				},
			},
			{Name: "root3-ca"},
		},
		EndEntities: []EndEntity{
			{
				Name:           "foo-1A1-good",
				SubjectAltName: "DNS:foo.example.org,URI:https://foo.example.org/sp",
				Subject:        "/CN=foo.example.org",
				Issuer:         "inter1A1-ca",
				Validity:       NewDurationValidity(certDays),
			},
			{
				// Expired almost immediately: ten seconds of validity.
				Name:           "foo-1A1-expired",
				SubjectAltName: "DNS:foo.example.org,URI:https://foo.example.org/sp",
				Subject:        "/CN=foo.example.org",
				Issuer:         "inter1A1-ca",
				Validity:       NewTimeValidity(nowUTC, nowUTC.Add(10*time.Second)),
			},
			{
				// Revoked below; appears in the non-empty CRLs.
				Name:           "foo-1A1-revoked",
				SubjectAltName: "DNS:foo.example.org,URI:https://foo.example.org/sp",
				Subject:        "/CN=foo.example.org",
				Issuer:         "inter1A1-ca",
				Validity:       NewDurationValidity(certDays),
			},
		},
		Steps: []FixtureStep{
			{
				Type: StepGenerateCRL,
				CRL: &CRLRequest{
					CA:       "inter1A1-ca",
					Output:   "inter1A1-v1-empty.crl",
					Validity: NewCRLDaysValidity(crlDays),
				},
			},
			{
				Type: StepRevoke,
				Revoke: &RevocationRequest{
					CA:          "inter1A1-ca",
					Certificate: "foo-1A1-revoked.crt",
				},
			},
			{
				Type: StepGenerateCRL,
				CRL: &CRLRequest{
					CA:       "inter1A1-ca",
					Output:   "inter1A1-v1.crl",
					Validity: NewCRLDaysValidity(crlDays),
				},
			},
			{
				Type: StepGenerateCRL,
				CRL: &CRLRequest{
					CA:         "inter1A1-ca",
					Output:     "inter1A1-v2.crl",
					Validity:   NewCRLDaysValidity(crlDays),
					Extensions: crlExtensions,
				},
			},
			{
				// Will expire one hour after generation. Used downstream to
				// exercise CRL expiry detection.
				Type: StepGenerateCRL,
				CRL: &CRLRequest{
					CA:       "inter1A1-ca",
					Output:   "inter1A1-v1-expired.crl",
					Validity: NewCRLHoursValidity(1),
				},
			},
		},
	}
}
