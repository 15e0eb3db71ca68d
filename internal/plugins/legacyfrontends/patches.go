// Where: internal/plugins/legacyfrontends/patches.go
// What: Dockerfile fragments contributed by the plugin.
// Why: Restore the legacy asset build steps removed from the host Dockerfiles.
package legacyfrontends

import "github.com/poruru-code/legacyfrontends/internal/hooks"

const (
	// PreAssetsPatch is the production image insertion point.
	PreAssetsPatch = "openedx-dockerfile-pre-assets"
	// PostPythonRequirementsPatch is the development image insertion point.
	PostPythonRequirementsPatch = "openedx-dev-dockerfile-post-python-requirements"

	// The production assets build used to run after this insertion point,
	// so it is appended after every other patch there.
	productionAssetsPriority = hooks.PriorityLowest
	// The development assets build used to run before this insertion point,
	// so it is prepended before every other patch there.
	developmentAssetsPriority hooks.Priority = 1
)

// BuildProductionAssets builds and collects assets for the default theme,
// then for custom themes.
const BuildProductionAssets = `
# Build & collect production assets. By default, only assets from the default theme
# will be processed. This makes the docker image lighter and faster to build.
RUN npm run postinstall  # Postinstall artifacts are stuck in nodejs-requirements layer. Create them here too.
RUN npm run compile-sass -- --skip-themes
RUN npm run webpack

# Now that the default theme is built, build any custom themes
COPY --chown=app:app ./themes/ /openedx/themes
RUN npm run compile-sass -- --skip-default
`

// BuildDevelopmentAssets recompiles static assets in development mode.
const BuildDevelopmentAssets = `
# Recompile static assets: in development mode all static assets are stored in edx-platform,
# and the location of these files is stored in webpack-stats.json. If we don't recompile
# static assets, then production assets will be served instead.
RUN rm -r /openedx/staticfiles &&     mkdir /openedx/staticfiles &&     npm run build-dev
`
