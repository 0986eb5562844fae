package transform

// Model is one declarative SQL transformation. Models run in declaration
// order because marts select from the staging view. The SQL sticks to the
// portable subset shared by SQLite and Postgres; date columns are stored as
// YYYY-MM-DD text, so month bucketing is a plain substr.
type Model struct {
	Name       string
	Statements []string
}

// Models are the transformation layers rebuilt after each successful load:
// one staging view over the raw table, then the analytical marts.
var Models = []Model{
	{
		Name: "stg_complaints",
		Statements: []string{
			`DROP VIEW IF EXISTS stg_complaints`,
			`CREATE VIEW stg_complaints AS
			 SELECT
			     complaint_id,
			     date_received,
			     substr(date_received, 1, 7) AS received_month,
			     product,
			     sub_product,
			     issue,
			     company,
			     state,
			     submitted_via,
			     company_response,
			     CASE WHEN timely = 'Yes' THEN 1 ELSE 0 END AS is_timely,
			     CASE WHEN consumer_disputed = 'Yes' THEN 1 ELSE 0 END AS is_disputed
			 FROM raw_complaints`,
		},
	},
	{
		Name: "mart_complaints_by_company",
		Statements: []string{
			`DROP TABLE IF EXISTS mart_complaints_by_company`,
			`CREATE TABLE mart_complaints_by_company AS
			 SELECT
			     company,
			     COUNT(*)            AS total_complaints,
			     MIN(date_received)  AS first_received,
			     MAX(date_received)  AS last_received,
			     SUM(is_timely)      AS timely_responses,
			     SUM(is_disputed)    AS disputed_complaints
			 FROM stg_complaints
			 GROUP BY company`,
		},
	},
	{
		Name: "mart_complaints_by_product_month",
		Statements: []string{
			`DROP TABLE IF EXISTS mart_complaints_by_product_month`,
			`CREATE TABLE mart_complaints_by_product_month AS
			 SELECT
			     product,
			     received_month,
			     COUNT(*) AS total_complaints
			 FROM stg_complaints
			 GROUP BY product, received_month`,
		},
	},
	{
		Name: "mart_company_response_timeliness",
		Statements: []string{
			`DROP TABLE IF EXISTS mart_company_response_timeliness`,
			`CREATE TABLE mart_company_response_timeliness AS
			 SELECT
			     company,
			     company_response,
			     COUNT(*)                          AS total_complaints,
			     SUM(is_timely)                    AS timely_responses,
			     1.0 * SUM(is_timely) / COUNT(*)   AS timely_rate
			 FROM stg_complaints
			 GROUP BY company, company_response`,
		},
	},
}

// DataTest is a post-transform data quality check. The query must return a
// single integer; any non-zero value fails the test.
type DataTest struct {
	Name  string
	Query string
}

// DataTests validate the raw and mart tables after a transform run.
// Failures are reported as warnings, not run failures.
var DataTests = []DataTest{
	{
		Name:  "raw_complaints_id_not_null",
		Query: `SELECT COUNT(*) FROM raw_complaints WHERE complaint_id IS NULL OR complaint_id = ''`,
	},
	{
		Name: "raw_complaints_id_unique",
		Query: `SELECT COUNT(*) FROM (
		            SELECT complaint_id FROM raw_complaints
		            GROUP BY complaint_id HAVING COUNT(*) > 1
		        ) dupes`,
	},
	{
		Name:  "raw_complaints_date_format",
		Query: `SELECT COUNT(*) FROM raw_complaints WHERE length(date_received) != 10`,
	},
	{
		Name: "mart_by_company_covers_raw",
		Query: `SELECT (SELECT COUNT(DISTINCT company) FROM raw_complaints)
		             - (SELECT COUNT(*) FROM mart_complaints_by_company)`,
	},
}
