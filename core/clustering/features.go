package clustering

import (
	"math"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
)

// Feature columns.
const (
	FeatCI = iota
	FeatIntelMean
	FeatIntelMax
	FeatIntelStd
	FeatIntelCount
	FeatGradeMean
	FeatGradeMax
	FeatGradeCount
	FeatPromedio

	numFeatures
)

const (
	defaultCI         = 100
	defaultGradeValue = 2
)

// Features turns a profile into its feature vector. Missing data falls back to neutral values:
// IQ 100, zero intelligence features and C grades.
func Features(p alumno.Profile) []float64 {
	f := make([]float64, numFeatures)

	f[FeatCI] = defaultCI
	if p.Alumno.CI != nil {
		f[FeatCI] = float64(*p.Alumno.CI)
	}

	if len(p.Inteligencias) > 0 {
		scores := make([]float64, 0, len(p.Inteligencias))
		for _, i := range p.Inteligencias {
			scores = append(scores, i.Puntaje)
		}
		f[FeatIntelMean] = core.Mean(scores)
		f[FeatIntelMax] = maxOf(scores)
		f[FeatIntelStd] = stdDev(scores)
		f[FeatIntelCount] = float64(len(scores))
	}

	f[FeatGradeMean], f[FeatGradeMax] = defaultGradeValue, defaultGradeValue
	if len(p.Calificaciones) > 0 {
		grades := make([]float64, 0, len(p.Calificaciones))
		for _, c := range p.Calificaciones {
			v, ok := core.GradeValue(c.Calificacion)
			if !ok {
				v = defaultGradeValue
			}
			grades = append(grades, v)
		}
		f[FeatGradeMean] = core.Mean(grades)
		f[FeatGradeMax] = maxOf(grades)
		f[FeatGradeCount] = float64(len(grades))
	}

	f[FeatPromedio] = p.Alumno.PromedioCalificaciones
	return f
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// stdDev is the population standard deviation.
func stdDev(vals []float64) float64 {
	mean := core.Mean(vals)
	var ss float64
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(vals)))
}

// Scale standardizes every column to zero mean and unit (population) variance.
// Constant columns are only centered.
func Scale(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])
	col := make([]float64, len(rows))
	means := make([]float64, dims)
	stds := make([]float64, dims)
	for d := 0; d < dims; d++ {
		for i, r := range rows {
			col[i] = r[d]
		}
		means[d] = core.Mean(col)
		stds[d] = stdDev(col)
		if stds[d] == 0 {
			stds[d] = 1
		}
	}

	scaled := make([][]float64, len(rows))
	for i, r := range rows {
		scaled[i] = make([]float64, dims)
		for d, v := range r {
			scaled[i][d] = (v - means[d]) / stds[d]
		}
	}
	return scaled
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
