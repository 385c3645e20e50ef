package generator

import (
	"embed"
	"fmt"
	"strings"

	"sitewrap/pkg/render"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Fixed locations within the generated project tree.
const (
	pathRootGradle     = "build.gradle"
	pathSettingsGradle = "settings.gradle"
	pathManifest       = "app/src/main/AndroidManifest.xml"
	pathLayout         = "app/src/main/res/layout/activity_main.xml"
	pathStrings        = "app/src/main/res/values/strings.xml"
	pathStyles         = "app/src/main/res/values/styles.xml"
	pathNetworkConfig  = "app/src/main/res/xml/network_security_config.xml"
	pathIcon           = "app/src/main/res/mipmap-xxhdpi/ic_launcher.png"
)

// sourcePath returns the entry-point location for a package identifier,
// splitting the reverse-domain form into directories: a.b.c -> a/b/c.
func sourcePath(packageName string) string {
	return "app/src/main/java/" + strings.ReplaceAll(packageName, ".", "/") + "/MainActivity.java"
}

// Renderer produces the text files of a generated project. Values are
// substituted literally with no XML or source escaping, so markup-special
// characters in the configuration pass through into the generated files;
// a hardened implementation would replace only this type.
type Renderer struct {
	engine *render.Engine
}

// NewRenderer parses the embedded project templates.
func NewRenderer() (*Renderer, error) {
	engine, err := render.New(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{engine: engine}, nil
}

type templateData struct {
	WebsiteURL          string
	AppName             string
	PackageName         string
	EnableNotifications bool
	EnableMusicControls bool
}

// RenderProject renders every generated file for the build and returns the
// complete path->content map, with the decoded icon included as the single
// binary entry.
func (r *Renderer) RenderProject(cfg Config, id Identity, icon []byte) (Project, error) {
	if r == nil || r.engine == nil {
		return nil, errorf(KindInternalAssembly, "nil renderer")
	}

	data := templateData{
		WebsiteURL:          cfg.WebsiteURL,
		AppName:             cfg.AppName,
		PackageName:         id.PackageName,
		EnableNotifications: cfg.EnableNotifications,
		EnableMusicControls: cfg.EnableMusicControls,
	}

	textEntries := map[string]string{
		pathRootGradle:             "build.gradle.tmpl",
		pathSettingsGradle:         "settings.gradle.tmpl",
		pathManifest:               "AndroidManifest.xml.tmpl",
		sourcePath(id.PackageName): "MainActivity.java.tmpl",
		pathLayout:                 "activity_main.xml.tmpl",
		pathStrings:                "strings.xml.tmpl",
		pathStyles:                 "styles.xml.tmpl",
		pathNetworkConfig:          "network_security_config.xml.tmpl",
	}

	project := make(Project, len(textEntries)+1)
	for path, name := range textEntries {
		content, err := r.engine.Render(name, data)
		if err != nil {
			return nil, newError(KindInternalAssembly, fmt.Errorf("render %s: %w", name, err))
		}
		project[path] = []byte(content)
	}

	project[pathIcon] = icon
	return project, nil
}
