/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// package lims looks up which population each sequenced individual was
// assigned to in the sample-tracking database, so that a dataset whose
// report carried no (or stale) population labels can be relabelled before
// filtering.

package lims

import (
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/qitsweauca/dartR/config"
)

const (
	sqlDriverName   = "mysql"
	sqlNetwork      = "tcp"
	connMaxLifetime = time.Minute * 3
	maxOpenConns    = 10
	maxIdleConns    = 10
)

// LIMS is a connection to the sample-tracking database.
type LIMS struct {
	pool *sql.DB
}

// MySQLConfig builds the mysql driver config from our environment config.
func MySQLConfig(c *config.Config) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = sqlNetwork
	mc.Addr = c.Addr()
	mc.DBName = c.DBName

	return mc
}

// New returns a new LIMS connection using mysql.Config that you can get from
// MySQLConfig(config.FromEnv()).
func New(c *mysql.Config) (*LIMS, error) {
	pool, err := sql.Open(sqlDriverName, c.FormatDSN())
	if err != nil {
		return nil, err
	}

	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)

	return &LIMS{pool: pool}, pool.Ping()
}

// Assignment records which population an individual belongs to according to
// the database.
type Assignment struct {
	IndividualID string
	Population   string
}

const getAssignments = `
SELECT DISTINCT i.supplier_name as IndividualID, p.name as Population
FROM individual i
JOIN population p on p.id_population_tmp = i.id_population_tmp
JOIN project pr on pr.id_project_tmp = i.id_project_tmp
WHERE pr.name = ? and i.withdrawn = 0
`

// AssignmentsForProject returns the individual to population assignments for
// all non-withdrawn individuals in the given project.
func (l *LIMS) AssignmentsForProject(project string) ([]Assignment, error) {
	rows, err := l.pool.Query(getAssignments, project)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var assignments []Assignment

	for rows.Next() {
		var a Assignment

		if err := rows.Scan(&a.IndividualID, &a.Population); err != nil {
			return nil, err
		}

		assignments = append(assignments, a)
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// Close closes the connection to the database.
func (l *LIMS) Close() error {
	return l.pool.Close()
}
