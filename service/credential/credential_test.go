package credential

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gatepass/service/security"
	"gatepass/util"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func newToken(t *testing.T) string {
	token, err := util.RandomToken(32)
	require.NoError(t, err)
	return token
}

func TestPayloadRoundTrip(t *testing.T) {
	token := newToken(t)

	for _, verifyURL := range []string{"", "https://gate.example.com/verify", "https://gate.example.com/verify?lang=vi"} {
		issuer := NewIssuer(verifyURL, nil)

		payload := issuer.Payload(token)
		require.Equal(t, payload, issuer.Payload(token))

		extracted, err := ExtractToken(payload)
		require.NoError(t, err)
		require.Equal(t, token, extracted)
	}
}

func TestExtractToken(t *testing.T) {
	token := newToken(t)

	cases := []string{
		token,
		"  " + token + "\n",
		"https://gate.example.com/t/" + token,
		"https://gate.example.com/t/" + token + "/",
		"/verify?token=" + token,
	}
	for _, scan := range cases {
		extracted, err := ExtractToken(scan)
		require.NoError(t, err, scan)
		require.Equal(t, token, extracted)
	}

	for _, scan := range []string{"", "   ", "short", "https://gate.example.com/", "https://gate.example.com/verify?token=", "not a token at all!"} {
		_, err := ExtractToken(scan)
		require.ErrorIs(t, err, ErrInvalidScan, scan)
	}
}

func TestRenderPlainQR(t *testing.T) {
	issuer := NewIssuer("https://gate.example.com/verify", nil)

	data, err := issuer.Render(issuer.Payload(newToken(t)))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, QRSize, img.Bounds().Dx())
	require.Equal(t, QRSize, img.Bounds().Dy())
}

func writeBackground(t *testing.T, path string, width, height int) {
	require.NoError(t, imaging.Save(imaging.New(width, height, color.NRGBA{R: 200, G: 30, B: 30, A: 255}), path))
}

func TestRenderOnBackground(t *testing.T) {
	path := filepath.Join(t.TempDir(), "background.png")
	writeBackground(t, path, 800, 600)

	issuer := NewIssuer("", NewBackground(path, time.Minute))
	data, err := issuer.Render(newToken(t))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 800, img.Bounds().Dx())
	require.Equal(t, 600, img.Bounds().Dy())
}

func TestRenderFallsBackWhenBackgroundMissing(t *testing.T) {
	issuer := NewIssuer("", NewBackground(filepath.Join(t.TempDir(), "missing.png"), time.Minute))

	data, err := issuer.Render(newToken(t))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, QRSize, img.Bounds().Dx())
}

func TestBackgroundRevalidatesAfterTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "background.png")
	writeBackground(t, path, 300, 200)

	clock := time.Now()
	bg := NewBackground(path, time.Minute)
	bg.now = func() time.Time { return clock }

	img, err := bg.Image()
	require.NoError(t, err)
	require.Equal(t, 300, img.Bounds().Dx())

	// Replace the file; within the TTL the cached image is still served
	writeBackground(t, path, 400, 200)
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	img, err = bg.Image()
	require.NoError(t, err)
	require.Equal(t, 300, img.Bounds().Dx())

	clock = clock.Add(2 * time.Minute)
	img, err = bg.Image()
	require.NoError(t, err)
	require.Equal(t, 400, img.Bounds().Dx())
}

func TestArtifactName(t *testing.T) {
	token := newToken(t)
	digest := security.Hash(token)[:32]

	require.Equal(t, "ticket-12-jane-doe-"+digest, ArtifactName(12, "Jane Doe", token))
	require.Equal(t, "ticket-7-"+digest, ArtifactName(7, "  ", token))

	// Stable for one ticket, so a resend overwrites the same image
	require.Equal(t, ArtifactName(12, "Jane Doe", token), ArtifactName(12, "Jane Doe", token))

	// Knowing the number and the buyer is not enough to find the image
	require.NotEqual(t, ArtifactName(12, "Jane Doe", token), ArtifactName(12, "Jane Doe", newToken(t)))
	require.NotContains(t, ArtifactName(12, "Jane Doe", token), token)
}

func TestDataURI(t *testing.T) {
	require.Equal(t, "data:image/png;base64,AQID", DataURI([]byte{1, 2, 3}))
}
