// Package contracts holds the interfaces pkg/app needs from domain packages.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler mounts its routes on the shared router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
