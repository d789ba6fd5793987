package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ReceiptStatus mirrors the execution status of a mined transaction
type ReceiptStatus uint64

const (
	ReceiptStatusFailed     ReceiptStatus = ReceiptStatus(types.ReceiptStatusFailed)
	ReceiptStatusSuccessful ReceiptStatus = ReceiptStatus(types.ReceiptStatusSuccessful)
)

func (s ReceiptStatus) String() string {
	if s == ReceiptStatusSuccessful {
		return "success"
	}
	return "reverted"
}

// Receipt is the confirmed outcome of a submitted transaction
type Receipt struct {
	TxHash          common.Hash
	Status          ReceiptStatus
	BlockNumber     uint64
	Confirmations   uint64
	GasUsed         uint64
	ContractAddress common.Address // set for contract creations only
	Logs            []*types.Log
}

// NewReceipt converts a go-ethereum receipt observed with the given confirmation count
func NewReceipt(r *types.Receipt, confirmations uint64) *Receipt {
	receipt := &Receipt{
		TxHash:          r.TxHash,
		Status:          ReceiptStatus(r.Status),
		Confirmations:   confirmations,
		GasUsed:         r.GasUsed,
		ContractAddress: r.ContractAddress,
		Logs:            r.Logs,
	}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.Uint64()
	}
	return receipt
}

// Succeeded reports whether the transaction executed without reverting
func (r *Receipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccessful
}
