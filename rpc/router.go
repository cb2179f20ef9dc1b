package rpc

import "strings"

// blockedNamespaces are node-management namespaces that must never be
// reachable from dApp traffic, whatever the upstream exposes.
var blockedNamespaces = []string{
	"admin_",
	"debug_",
	"les_",
	"miner_",
	"personal_",
	"txpool_",
}

// router decides whether a method may leave the process at all.
type router struct {
	blocked map[string]struct{}
}

func newRouter() *router {
	return &router{
		blocked: make(map[string]struct{}),
	}
}

// blockMethod adds a single method to the deny list.
func (r *router) blockMethod(method string) {
	r.blocked[method] = struct{}{}
}

func (r *router) routeBlocked(method string) bool {
	if _, ok := r.blocked[method]; ok {
		return true
	}
	for _, ns := range blockedNamespaces {
		if strings.HasPrefix(method, ns) {
			return true
		}
	}
	return false
}
