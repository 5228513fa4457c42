package dbtypes

type DBEngineType int

const (
	DBEngineAny DBEngineType = iota
	DBEnginePgsql
	DBEngineSqlite
)
