package ui

import (
	"embed"
	"fmt"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
)

//go:embed src/app.js src/app.css
var srcFS embed.FS

// assetBundle holds the compiled frontend, built once at server start.
type assetBundle struct {
	JS  string
	CSS string
}

// buildAssets compiles the embedded sources with esbuild: the JS as a
// minified ES2020 IIFE, the CSS minified.
func buildAssets() (*assetBundle, error) {
	appJS, err := srcFS.ReadFile("src/app.js")
	if err != nil {
		return nil, err
	}
	appCSS, err := srcFS.ReadFile("src/app.css")
	if err != nil {
		return nil, err
	}

	js, err := buildJS(string(appJS))
	if err != nil {
		return nil, err
	}
	css, err := buildCSS(string(appCSS))
	if err != nil {
		return nil, err
	}

	return &assetBundle{JS: js, CSS: css}, nil
}

func buildJS(source string) (string, error) {
	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   source,
			Sourcefile: "app.js",
			Loader:     api.LoaderJS,
		},
		Bundle: true,
		Write:  false,

		// Virtual output directory; nothing is written with Write false
		Outdir: "out",

		Platform: api.PlatformBrowser,
		Format:   api.FormatIIFE,
		Target:   api.ES2020,

		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,

		LogLevel: api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("esbuild errors:\n%s", formatBuildErrors(result.Errors))
	}

	for _, file := range result.OutputFiles {
		if filepath.Ext(file.Path) == ".js" {
			return string(file.Contents), nil
		}
	}
	return "", fmt.Errorf("no JavaScript output generated")
}

func buildCSS(source string) (string, error) {
	result := api.Transform(source, api.TransformOptions{
		Loader:           api.LoaderCSS,
		MinifyWhitespace: true,
		MinifySyntax:     true,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("esbuild errors:\n%s", formatBuildErrors(result.Errors))
	}
	return string(result.Code), nil
}

func formatBuildErrors(msgs []api.Message) string {
	var out string
	for _, msg := range msgs {
		if msg.Location != nil {
			out += fmt.Sprintf("%s:%d:%d: %s\n", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
		} else {
			out += msg.Text + "\n"
		}
	}
	return out
}
