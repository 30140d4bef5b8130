// schema writes a JSON Schema describing the WebSocket protocol: the
// envelope, the client messages and every telemetry record.
//
// Usage:
//
//	schema -out docs/protocol.schema.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"satellite_simulator/internal/model"
	"satellite_simulator/internal/ws"
)

// protocol groups every message body so one document covers them all.
type protocol struct {
	Envelope      ws.Envelope             `json:"envelope"`
	Command       ws.CommandPayload       `json:"cmd_send"`
	Step          ws.StepPayload          `json:"sim_step"`
	SimState      ws.SimStatePayload      `json:"sim_state"`
	CommandResult ws.CommandResultPayload `json:"cmd_result"`
	Error         ws.ErrorPayload         `json:"error"`
	HealthStatus  model.HealthStatus      `json:"tlm_health_status"`
	Thermal       model.Thermal           `json:"tlm_thermal"`
	Mech          model.Mech              `json:"tlm_mech"`
	Comms         model.Comms             `json:"tlm_comms"`
	Imager        model.Imager            `json:"tlm_imager"`
	ADCS          model.ADCS              `json:"tlm_adcs"`
	Event         model.Event             `json:"tlm_event"`
	Image         model.Image             `json:"tlm_image"`
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(protocol))
	schema.Title = "Satellite Simulator Protocol"
	schema.Description = "WebSocket envelopes, client commands and telemetry records"
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
