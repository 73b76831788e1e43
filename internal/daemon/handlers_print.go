//go:build unix

package daemon

import "net/http"

// handlePrint handles GET /api/print?name=&container=&template=
// and answers with the rendered markup as text/plain.
func (d *Daemon) handlePrint(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		writeError(w, "name query parameter is required", http.StatusBadRequest)
		return
	}

	out, err := d.registry.Print(name, refFrom(q.Get("container")), q.Get("template"))
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	writeText(w, out)
}

func (d *Daemon) handlePrintAll(w http.ResponseWriter, r *http.Request) {
	out, err := d.registry.PrintAll(refFrom(r.URL.Query().Get("container")))
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	writeText(w, out)
}
