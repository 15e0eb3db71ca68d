// Where: internal/images/args.go
// What: Translate descriptor build arguments into SDK build options.
// Why: Descriptors carry docker-build style flags; the SDK takes structured options.
package images

import (
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/build"
)

// applyBuildArgs updates options from docker-build style arguments. Both
// "--flag value" and "--flag=value" forms are accepted.
func applyBuildArgs(options *build.ImageBuildOptions, args []string) error {
	for i := 0; i < len(args); i++ {
		flag, value, hasValue := strings.Cut(args[i], "=")
		next := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("build arg %s requires a value", flag)
			}
			i++
			return args[i], nil
		}

		switch flag {
		case "--no-cache":
			options.NoCache = true
		case "--pull":
			options.PullParent = true
		case "--target":
			v, err := next()
			if err != nil {
				return err
			}
			options.Target = v
		case "--platform":
			v, err := next()
			if err != nil {
				return err
			}
			options.Platform = v
		case "--build-arg":
			v, err := next()
			if err != nil {
				return err
			}
			key, val, ok := strings.Cut(v, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid build arg %q: expected KEY=VALUE", v)
			}
			if options.BuildArgs == nil {
				options.BuildArgs = map[string]*string{}
			}
			options.BuildArgs[key] = &val
		default:
			return fmt.Errorf("unsupported build arg %q", args[i])
		}
	}
	return nil
}
