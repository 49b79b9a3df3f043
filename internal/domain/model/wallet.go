package model

import "github.com/ethereum/go-ethereum/common"

// IsWalletAddress reports whether s is a 20-byte hex address, with or without 0x.
func IsWalletAddress(s string) bool {
	return common.IsHexAddress(s)
}
