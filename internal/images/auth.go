// Where: internal/images/auth.go
// What: Registry credentials for image pushes.
// Why: The SDK sends only what it is given; reuse the logins stored by `docker login`.
package images

import (
	"fmt"
	"os"

	"github.com/distribution/reference"
	"github.com/docker/cli/cli/config"
	"github.com/docker/docker/api/types/registry"
)

// dockerHubAuthKey is the key Docker Hub credentials are stored under.
const dockerHubAuthKey = "https://index.docker.io/v1/"

// registryAuth returns the encoded credentials stored for the registry that
// hosts ref. DOCKER_CONFIG selects the configuration directory; a registry
// without a login gets anonymous credentials.
func registryAuth(ref string) (string, error) {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return "", fmt.Errorf("parse image reference %s: %w", ref, err)
	}
	host := reference.Domain(named)
	if host == "docker.io" {
		host = dockerHubAuthKey
	}

	cfg, err := config.Load(os.Getenv(config.EnvOverrideConfigDir))
	if err != nil {
		return "", fmt.Errorf("load docker config: %w", err)
	}
	creds, err := cfg.GetAuthConfig(host)
	if err != nil {
		return "", fmt.Errorf("read credentials for %s: %w", host, err)
	}

	auth, err := registry.EncodeAuthConfig(registry.AuthConfig{
		Username:      creds.Username,
		Password:      creds.Password,
		Auth:          creds.Auth,
		ServerAddress: creds.ServerAddress,
		IdentityToken: creds.IdentityToken,
		RegistryToken: creds.RegistryToken,
	})
	if err != nil {
		return "", fmt.Errorf("encode registry auth: %w", err)
	}
	return auth, nil
}
