package models

import (
	"fmt"
	"time"
)

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusSkipped    VerificationStatus = "SKIPPED"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
)

// Deployment represents a contract deployment record
type Deployment struct {
	// Core identification
	ContractName string `json:"contractName"` // e.g., "NFTMarketplace"
	Address      string `json:"address"`      // Contract address
	Network      string `json:"network"`      // e.g., "sepolia", "localhost"
	ChainID      uint64 `json:"chainId"`

	// Deployment details
	Deployer            string `json:"deployer"`
	ConstructorArgs     []any  `json:"constructorArgs"`
	TransactionHash     string `json:"transactionHash"`
	BlockNumber         uint64 `json:"blockNumber"`
	ConfirmationsWaited uint64 `json:"confirmationsWaited"`

	// Contract artifact information
	Artifact ArtifactInfo `json:"artifact"`

	// Verification information
	Verification VerificationInfo `json:"verification"`

	CreatedAt time.Time `json:"createdAt"`
}

// ArtifactInfo contains contract artifact information
type ArtifactInfo struct {
	SourceName   string `json:"sourceName,omitempty"` // e.g., "contracts/NFTMarketplace.sol"
	BytecodeHash string `json:"bytecodeHash,omitempty"`
}

// VerificationInfo contains verification details
type VerificationInfo struct {
	Status     VerificationStatus `json:"status"`
	URL        string             `json:"url,omitempty"`
	VerifiedAt *time.Time         `json:"verifiedAt,omitempty"`
	Reason     string             `json:"reason,omitempty"`
}

// ContractPath returns the identifier used by source verifiers ("path:Name" when the
// source file is known, the bare contract name otherwise)
func (d *Deployment) ContractPath() string {
	if d.Artifact.SourceName != "" {
		return fmt.Sprintf("%s:%s", d.Artifact.SourceName, d.ContractName)
	}
	return d.ContractName
}
