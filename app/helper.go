package app

import (
	"math/big"
	"path/filepath"
	"strings"
)

func isRecording(filename string) bool {
	return strings.HasSuffix(filename, ".avi") || strings.HasSuffix(filename, ".mp4")
}

func baseName(path string) string {
	return filepath.Base(path)
}

func truncate(num float64, unit float64) float64 {
	bf := big.NewFloat(0).SetPrec(1000).SetFloat64(num)
	bu := big.NewFloat(0).SetPrec(1000).SetFloat64(unit)

	bf.Quo(bf, bu)

	i := big.NewInt(0)
	bf.Int(i)
	bf.SetInt(i)

	f, _ := bf.Mul(bf, bu).Float64()

	return f
}
