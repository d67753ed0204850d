// Package extract pulls tables out of SQL databases.
//
// Queries are kept in .sql files next to the project configuration, loaded
// with LoadQuery and executed in order by QueryData. Each result becomes a
// table.Table ready for a pipeline.
package extract
