// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// provctl is an external developer tool. Its only touchpoints with the
// core are event-file loading and re-validation; it has no standing in
// the determinism contract and is never imported by core packages.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/provenance/digest"
	"github.com/luxfi/provenance/event"
)

var logger = slog.Default().With("module", "provctl")

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "validate":
		runValidate(os.Args[2:])
	case "inspect":
		runInspect(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: provctl <validate|inspect> [flags]")
	fmt.Fprintln(os.Stderr, "  validate -file <event-batch.json>   re-validate a batch of events")
	fmt.Fprintln(os.Stderr, "  inspect  <file>                     dump arbitrary CBOR bytes in diagnostic notation")
}

// wireFile is the on-disk JSON shape for a batch of events. This format
// exists only for this developer tool; it is not a wire format any core
// component reads or writes, and encoding/json is acceptable here for
// exactly that reason.
type wireFile struct {
	Events []wireFileEvent `json:"events"`
}

type wireFileEvent struct {
	EventID         string  `json:"event_id"`
	Kind            string  `json:"kind"`
	PayloadHex      string  `json:"payload_hex"`
	Parents         []string `json:"parents"`
	AgentID         *string `json:"agent_id,omitempty"`
	SignatureHex    *string `json:"signature_hex,omitempty"`
	ObservationType *string `json:"observation_type,omitempty"`
}

func parseKind(s string) (event.EventKind, error) {
	switch s {
	case "Observation":
		return event.KindObservation, nil
	case "PolicyContext":
		return event.KindPolicyContext, nil
	case "Decision":
		return event.KindDecision, nil
	case "Commit":
		return event.KindCommit, nil
	default:
		return 0, fmt.Errorf("unknown event kind %q", s)
	}
}

func parseHash(s string) (digest.Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return digest.Hash{}, err
	}
	h, ok := digest.FromBytes(b)
	if !ok {
		return digest.Hash{}, fmt.Errorf("hash %q is not %d bytes", s, digest.Size)
	}
	return h, nil
}

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	file := fs.String("file", "", "path to a JSON event batch file")
	fs.Parse(args)

	if *file == "" {
		logger.Error("validate requires -file")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("reading event batch file", "error", err)
		os.Exit(1)
	}

	var wf wireFile
	if err := json.Unmarshal(raw, &wf); err != nil {
		logger.Error("parsing event batch file", "error", err)
		os.Exit(1)
	}

	batch := make([]*event.EventEnvelope, 0, len(wf.Events))
	for i, we := range wf.Events {
		kind, err := parseKind(we.Kind)
		if err != nil {
			logger.Error("bad event kind", "index", i, "error", err)
			os.Exit(1)
		}
		eventID, err := parseHash(we.EventID)
		if err != nil {
			logger.Error("bad event_id", "index", i, "error", err)
			os.Exit(1)
		}
		payloadBytes, err := hex.DecodeString(we.PayloadHex)
		if err != nil {
			logger.Error("bad payload_hex", "index", i, "error", err)
			os.Exit(1)
		}
		parents := make([]digest.Hash, len(we.Parents))
		for j, p := range we.Parents {
			h, err := parseHash(p)
			if err != nil {
				logger.Error("bad parent hash", "index", i, "parent_index", j, "error", err)
				os.Exit(1)
			}
			parents[j] = h
		}
		var sig []byte
		if we.SignatureHex != nil {
			sig, err = hex.DecodeString(*we.SignatureHex)
			if err != nil {
				logger.Error("bad signature_hex", "index", i, "error", err)
				os.Exit(1)
			}
		}

		in := event.WireEnvelope{
			EventID:         eventID,
			Kind:            kind,
			PayloadBytes:    payloadBytes,
			Parents:         parents,
			AgentID:         we.AgentID,
			ObservationType: we.ObservationType,
		}
		if we.SignatureHex != nil {
			in.Signature = sig
		}

		env, err := event.DecodeEnvelope(in)
		if err != nil {
			logger.Error("decoding event failed", "index", i, "error", err)
			os.Exit(1)
		}
		batch = append(batch, env)
	}

	if err := event.ValidateStore(nil, batch); err != nil {
		logger.Error("batch validation failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("validated %d events OK\n", len(batch))
}

// runInspect prints a best-effort human-readable dump of arbitrary CBOR
// bytes, which need not be canonical. This is diagnostic tooling only;
// nothing in the core ever parses non-canonical bytes successfully.
func runInspect(args []string) {
	if len(args) != 1 {
		logger.Error("inspect requires exactly one file argument")
		os.Exit(2)
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("reading file", "error", err)
		os.Exit(1)
	}

	diag, err := cbor.Diagnose(raw)
	if err != nil {
		logger.Error("bytes did not parse as CBOR at all", "error", err)
		os.Exit(1)
	}
	fmt.Println(diag)
}
