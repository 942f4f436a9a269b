package credential

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"gatepass/service/security"
	"gatepass/util"

	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"
)

// Side of the rendered QR code in pixels
const QRSize = 512

var (
	ErrInvalidScan = errors.New("scan does not contain a ticket token")

	tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{16,128}$`)
)

// Artifact: everything handed to the buyer for one ticket
type Artifact struct {
	Payload      string // QR content
	PNG          []byte
	URL          string // Public URL of the image, or a data URI when the upload failed
	Uploaded     bool
	WhatsAppLink string
}

// Inline representation of a PNG, used when it could not be stored
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// Issuer turns ticket tokens into scannable credentials
type Issuer struct {
	verifyURL  string
	background *Background
}

// Create an issuer. verifyURL may be empty (the QR then carries the raw token), background may be nil
func NewIssuer(verifyURL string, background *Background) *Issuer {
	return &Issuer{verifyURL: strings.TrimSpace(verifyURL), background: background}
}

// The content encoded into the QR code. The same token always gives the same payload
func (issuer *Issuer) Payload(token string) string {
	if issuer.verifyURL == "" {
		return token
	}

	u, err := url.Parse(issuer.verifyURL)
	if err != nil {
		return token
	}
	query := u.Query()
	query.Set("token", token)
	u.RawQuery = query.Encode()
	return u.String()
}

// Recover the ticket token from a scan: either the raw token, a URL with a token query parameter,
// or a URL whose last path segment is the token
func ExtractToken(scan string) (string, error) {
	scan = strings.TrimSpace(scan)
	if scan == "" {
		return "", ErrInvalidScan
	}

	if tokenPattern.MatchString(scan) {
		return scan, nil
	}

	if !strings.Contains(scan, "/") && !strings.Contains(scan, "?") {
		return "", ErrInvalidScan
	}

	u, err := url.Parse(scan)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidScan, err)
	}

	if token := u.Query().Get("token"); token != "" {
		if !tokenPattern.MatchString(token) {
			return "", ErrInvalidScan
		}
		return token, nil
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if last := segments[len(segments)-1]; tokenPattern.MatchString(last) {
		return last, nil
	}
	return "", ErrInvalidScan
}

// Render the payload as a PNG. With a background configured the QR is drawn in the middle of it
func (issuer *Issuer) Render(payload string) ([]byte, error) {
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}

	if issuer.background == nil {
		return code.PNG(QRSize)
	}

	background, err := issuer.background.Image()
	if err != nil {
		util.LOGGER.Warn("credential background unavailable, rendering plain QR", "error", err)
		return code.PNG(QRSize)
	}

	// Shrink the QR when the background is smaller than it
	side := QRSize
	bounds := background.Bounds()
	if limit := min(bounds.Dx(), bounds.Dy()) * 4 / 5; limit < side {
		side = limit
	}

	composed := imaging.OverlayCenter(background, code.Image(side), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, composed, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode credential: %w", err)
	}
	return buf.Bytes(), nil
}

// Hex characters of the token digest appended to artifact names
const artifactDigestLen = 32

// Name of the stored credential image, e.g. "ticket-12-jane-doe-<digest>".
// The image is public and carries the token, so the name must not be derivable from ticket number and buyer name:
// the suffix is a digest of the token itself
func ArtifactName(ticketNumber uint, name, token string) string {
	digest := security.Hash(token)[:artifactDigestLen]
	if s := util.GenerateSlug(name); s != "" {
		return fmt.Sprintf("ticket-%d-%s-%s", ticketNumber, s, digest)
	}
	return fmt.Sprintf("ticket-%d-%s", ticketNumber, digest)
}
