package models

import (
	"bytes"
	"encoding/json"
)

// BytecodeObject is the creation bytecode of a compiled contract. Foundry writes it as an
// object with an "object" field, Hardhat as a plain hex string; both decode here.
type BytecodeObject struct {
	Object         string         `json:"object"`
	LinkReferences map[string]any `json:"linkReferences,omitempty"`
}

// UnmarshalJSON accepts both the Foundry and the Hardhat bytecode shapes
func (b *BytecodeObject) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		return json.Unmarshal(data, &b.Object)
	}
	type plain BytecodeObject
	return json.Unmarshal(data, (*plain)(b))
}

// Artifact is a compilation artifact as written by Hardhat or Foundry
type Artifact struct {
	ContractName string           `json:"contractName"`
	SourceName   string           `json:"sourceName"`
	ABI          json.RawMessage  `json:"abi"`
	Bytecode     BytecodeObject   `json:"bytecode"`
	Metadata     ArtifactMetadata `json:"metadata"`
}

// ArtifactMetadata is the part of the Foundry metadata section used to locate sources
type ArtifactMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// Source returns the source file the contract was compiled from
func (a *Artifact) Source() string {
	if a.SourceName != "" {
		return a.SourceName
	}
	for path := range a.Metadata.Settings.CompilationTarget {
		return path
	}
	return ""
}
