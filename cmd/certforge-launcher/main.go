// certforge-launcher is a small HTTP service that starts the certforge tool
// on request, so a separate frontend can launch it with one POST.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
)

type startResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func main() {
	port := flag.Int("port", 5000, "listen port")
	binary := flag.String("binary", "certforge", "path to the certforge binary")
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	http.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, startResponse{
				Status:  "error",
				Message: "POST required",
			})
			return
		}

		cmd := exec.Command(*binary)
		if err := cmd.Start(); err != nil {
			log.Printf("failed to start %s: %v", *binary, err)
			writeJSON(w, http.StatusInternalServerError, startResponse{
				Status:  "error",
				Message: err.Error(),
			})
			return
		}
		log.Printf("started %s (pid %d)", *binary, cmd.Process.Pid)

		// The tool runs independently of the launcher; reap it in the
		// background so finished processes don't linger as zombies.
		go func() {
			if err := cmd.Wait(); err != nil {
				log.Printf("%s (pid %d) exited: %v", *binary, cmd.Process.Pid, err)
			}
		}()

		writeJSON(w, http.StatusOK, startResponse{
			Status:  "success",
			Message: "Certificate Mass Production Tool started successfully",
		})
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("certforge-launcher listening on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, resp startResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
