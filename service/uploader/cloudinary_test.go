package uploader

import (
	"os"
	"strings"
	"testing"

	"gatepass/service/credential"
	"gatepass/util"

	"github.com/stretchr/testify/require"
)

func TestNewCldRequiresCredentials(t *testing.T) {
	_, err := NewCld("", "key", "secret")
	require.Error(t, err)
}

func TestUpload(t *testing.T) {
	// Omit test if this is CI environment
	if strings.TrimSpace(os.Getenv("CI")) != "" || os.Getenv("CLOUDINARY_NAME") == "" {
		t.Skip("CI environment or no cloudinary credentials, skip integration test")
	}

	service, err := NewCld(os.Getenv("CLOUDINARY_NAME"), os.Getenv("CLOUDINARY_APIKEY"), os.Getenv("CLOUDINARY_APISECRET"))
	require.NoError(t, err)

	token, err := util.RandomToken(32)
	require.NoError(t, err)
	png, err := credential.NewIssuer("", nil).Render(token)
	require.NoError(t, err)

	url, err := service.Upload(t.Context(), credential.ArtifactName(0, "integration", util.RandomString(32)), png)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://"))
	util.LOGGER.Info("Test CloudinaryService", "url", url)
}
