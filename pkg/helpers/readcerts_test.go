package helpers

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func selfSignedPEM(t *testing.T, cn string) (string, *x509.Certificate) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}
	return CertificateToPEM(cert), cert
}

func TestReadCertificateFromFile(t *testing.T) {
	pemStr, original := selfSignedPEM(t, "fixture.example.org")
	path := writeTempFile(t, "cert.pem", pemStr)

	cert, err := ReadCertificateFromFile(path)
	if err != nil {
		t.Fatalf("ReadCertificateFromFile failed for valid file: %v", err)
	}
	if cert.Subject.CommonName != original.Subject.CommonName {
		t.Errorf("unexpected CN %s", cert.Subject.CommonName)
	}

	if _, err = ReadCertificateFromFile(""); err == nil {
		t.Error("ReadCertificateFromFile should have returned an error for empty file path")
	}

	if _, err = ReadCertificateFromFile(filepath.Join(t.TempDir(), "missing.pem")); err == nil {
		t.Error("ReadCertificateFromFile should have returned an error for missing file")
	}

	garbage := writeTempFile(t, "garbage.pem", "not a certificate")
	if _, err = ReadCertificateFromFile(garbage); err == nil {
		t.Error("ReadCertificateFromFile should have returned an error for non-PEM content")
	}
}

func TestPrivateKeyRoundTrip(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	pemStr, err := PrivateKeyToPEM(rsaKey)
	if err != nil {
		t.Fatal(err)
	}

	path := writeTempFile(t, "key.pem", pemStr)
	parsed, err := ReadPrivateKeyFromFile(path)
	if err != nil {
		t.Fatalf("ReadPrivateKeyFromFile failed: %v", err)
	}
	if _, ok := parsed.(*rsa.PrivateKey); !ok {
		t.Errorf("expected *rsa.PrivateKey, got %T", parsed)
	}

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	pemStr, err = PrivateKeyToPEM(ecKey)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParsePrivateKey([]byte(pemStr)); err != nil {
		t.Errorf("ParsePrivateKey failed for EC key: %v", err)
	}

	if _, err := ParsePrivateKey([]byte("junk")); err == nil {
		t.Error("ParsePrivateKey should have returned an error for junk input")
	}
}

func TestReadCRLFromFile(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "crl-issuer"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	issuer, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}

	crlDER, err := x509.CreateRevocationList(rand.Reader, &x509.RevocationList{
		Number:     big.NewInt(1),
		ThisUpdate: time.Now().Add(-time.Minute),
		NextUpdate: time.Now().Add(time.Hour),
		RevokedCertificateEntries: []x509.RevocationListEntry{
			{SerialNumber: big.NewInt(42), RevocationTime: time.Now().Add(-time.Minute)},
		},
	}, issuer, key)
	if err != nil {
		t.Fatal(err)
	}

	// DER form parses directly.
	crl, err := ParseCRL(crlDER)
	if err != nil {
		t.Fatalf("ParseCRL failed for DER input: %v", err)
	}
	if len(crl.RevokedCertificateEntries) != 1 {
		t.Errorf("expected 1 revoked entry, got %d", len(crl.RevokedCertificateEntries))
	}

	// PEM form, as emitted by the toolkit.
	crlPEM := pem.EncodeToMemory(&pem.Block{Type: "X509 CRL", Bytes: crlDER})
	path := writeTempFile(t, "list.crl", string(crlPEM))
	crl, err = ReadCRLFromFile(path)
	if err != nil {
		t.Fatalf("ReadCRLFromFile failed for PEM input: %v", err)
	}
	if crl.RevokedCertificateEntries[0].SerialNumber.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("unexpected serial %s", crl.RevokedCertificateEntries[0].SerialNumber)
	}
}
