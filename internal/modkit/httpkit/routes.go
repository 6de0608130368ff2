package httpkit

import "net/http"

// MountUnder opens a route group at prefix, installs the module middlewares on
// it and hands the group to mount. Nil middlewares are skipped
func MountUnder(r Router, prefix string, mws []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		for _, mw := range mws {
			if mw != nil {
				sub.Use(mw)
			}
		}
		mount(sub)
	})
}
