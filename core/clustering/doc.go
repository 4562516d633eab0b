// Package clustering groups alumnos by ability profile.
//
// Each alumno is reduced to a feature vector (IQ, intelligence scores, grades), standardized,
// then clustered twice: with K-Means (k-means++ seeding, best of several seeded runs) and with DBSCAN.
// The resulting labels are stored on the alumnos and summarized per cluster.
package clustering
