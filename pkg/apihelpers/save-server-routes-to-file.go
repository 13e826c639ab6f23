package apihelpers

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// WriteRoutesToFile dumps the registered routes of a gin engine to a text
// file, one "METHOD<tab>PATH" line per route, sorted by path then method.
func WriteRoutesToFile(router *gin.Engine, filename string) error {
	routes := router.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	var sb strings.Builder
	for _, route := range routes {
		fmt.Fprintf(&sb, "%s\t%s\n", route.Method, route.Path)
	}
	return os.WriteFile(filename, []byte(sb.String()), 0644)
}
