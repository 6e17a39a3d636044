package surf

import (
	"math"
	"sync"
)

// gauss25 holds the weights of a σ = 2.5 Gaussian sampled at integer
// offsets, indexed by absolute column and row offset. The table is not
// symmetric (gauss25[1][2] != gauss25[2][1]); the values are kept as published
// so orientations agree with existing KPM feature sets.
var gauss25 = [7][7]float64{
	{0.02350693969273, 0.01849121369071, 0.01239503121241, 0.00708015417522, 0.00344628101733, 0.00142945847484, 0.00050524879060},
	{0.02169964028389, 0.01706954162243, 0.01144205592615, 0.00653580605408, 0.00318131834134, 0.00131955648461, 0.00046640341759},
	{0.01706954162243, 0.01342737701584, 0.00900063997939, 0.00514124713667, 0.00250251364222, 0.00103799989504, 0.00036688592278},
	{0.01144205592615, 0.00900063997939, 0.00603330940534, 0.00344628101733, 0.00167748505986, 0.00069579213743, 0.00024593098864},
	{0.00653580605408, 0.00514124713667, 0.00344628101733, 0.00196854695367, 0.00095819467066, 0.00039744277546, 0.00014047800980},
	{0.00318131834134, 0.00250251364222, 0.00167748505986, 0.00095819467066, 0.00046640341759, 0.00019345616757, 0.00006837798818},
	{0.00131955648461, 0.00103799989504, 0.00069579213743, 0.00039744277546, 0.00019345616757, 0.00008024231247, 0.00002836202103},
}

const (
	gaussTableDist  = 600
	gaussTableSigma = 100
)

// gaussTable[d][s] is the 2-D Gaussian density at squared distance d for
// σ = s/10. Column 0 is unused.
var (
	gaussTable     [gaussTableDist][gaussTableSigma]float32
	gaussTableOnce sync.Once
)

func initGaussTable() {
	gaussTableOnce.Do(func() {
		for i := 0; i < gaussTableDist; i++ {
			for j := 1; j < gaussTableSigma; j++ {
				l := float32(i)
				s := float32(j) * 0.1
				gaussTable[i][j] = gaussianDensity(l, s)
			}
		}
	})
}

func gaussianDensity(d2, sig float32) float32 {
	return (1 / (2 * math.Pi * sig * sig)) * float32(math.Exp(float64(-d2/(2*sig*sig))))
}

func sigmaColumn(sig float32) int {
	return int((sig + 0.05) * 10)
}

// gaussianInt returns the Gaussian density at integer offset (x, y).
func gaussianInt(x, y int, sig float32) float32 {
	i := x*x + y*y
	j := sigmaColumn(sig)
	if i < gaussTableDist && j > 0 && j < gaussTableSigma {
		return gaussTable[i][j]
	}
	return gaussianDensity(float32(i), sig)
}

// gaussianFloat returns the Gaussian density at (x, y), using the table entry
// for the nearest integer squared distance when one exists.
func gaussianFloat(x, y, sig float32) float32 {
	d2 := x*x + y*y
	i := int(d2 + 0.5)
	j := sigmaColumn(sig)
	if i < gaussTableDist && j > 0 && j < gaussTableSigma {
		return gaussTable[i][j]
	}
	return gaussianDensity(d2, sig)
}
