// Package model orchestrates a training run.
//
// The model itself stays opaque: a Workflow only knows how to sequence the
// steps of a run and where to keep its artifacts. Projects supply a DataSet
// that splits the prepared table, a ModelSet that builds the model, and a
// Trainer that fits it and exports the results.
package model
