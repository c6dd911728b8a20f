package app

import "net/http"

// BuildRootHandler composes the default station surface from config.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	composer := Composer{}
	return composer.Compose(ComposeInput{
		Modules:      cfg.Modules,
		SchemePolicy: cfg.SchemePolicy,
	})
}
