package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/h2gis/h2gis-go/bridge"
	"github.com/h2gis/h2gis-go/engine"
	"github.com/h2gis/h2gis-go/rows"
	"github.com/h2gis/h2gis-go/session"
)

func main() {
	var (
		db          = flag.String("db", "", "Data source (H2GIS:/path/to/db?user=...&password=...)")
		sqlText     = flag.String("sql", "", "SQL to run")
		lib         = flag.String("lib", "", "Path to the native engine library (overrides H2GIS_NATIVE_LIB)")
		user        = flag.String("user", "", "Database user (overrides URI credentials)")
		password    = flag.String("password", "", "Database password")
		batch       = flag.Int("batch", 0, "Rows per fetch batch")
		meta        = flag.Bool("meta", false, "Print the table catalog and exit")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive SQL shell")
	)
	flag.Parse()

	if *db == "" {
		fmt.Fprintln(os.Stderr, "Usage: h2gis -db <datasource> -sql <statement>")
		fmt.Fprintln(os.Stderr, "       h2gis -db <datasource> -meta")
		fmt.Fprintln(os.Stderr, "       h2gis -db <datasource> -i  (interactive shell)")
		os.Exit(1)
	}

	if *verbose {
		if logger, err := zap.NewDevelopment(); err == nil {
			engine.SetLogger(logger)
		}
	}

	if *interactive {
		if err := runInteractive(*db, *lib, *user, *password); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*db, *sqlText, *lib, *user, *password, *batch, *meta); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(db, sqlText, lib, user, password string, batch int, meta bool) error {
	br := bridge.New(bridge.Config{LibraryPath: lib})
	defer br.RequestShutdown()

	var opts []session.Option
	if user != "" {
		opts = append(opts, session.WithCredentials(user, password))
	}
	if batch > 0 {
		opts = append(opts, session.WithBatchSize(int32(batch)))
	}

	s, err := session.Open(br, db, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	if meta {
		return printCatalog(s)
	}
	if sqlText == "" {
		return fmt.Errorf("nothing to do: pass -sql, -meta or -i")
	}

	if !isQuery(sqlText) {
		if err := s.Exec(sqlText); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	}

	rs, err := s.Query(sqlText)
	if err != nil {
		return err
	}
	defer rs.Close()

	count := 0
	for {
		row, err := rs.Next()
		if err != nil {
			if isEndOfStream(err) {
				break
			}
			return err
		}
		if count == 0 {
			fmt.Println(strings.Join(row.Columns, " | "))
		}
		fmt.Println(formatRow(row))
		count++
	}
	fmt.Printf("(%d rows)\n", count)
	return nil
}

func printCatalog(s *session.Session) error {
	tables, err := s.Metadata()
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		fmt.Println("No tables.")
		return nil
	}
	for _, tab := range tables {
		fmt.Printf("%s", tab.Name)
		if tab.GeometryColumn != "" {
			fmt.Printf("  [%s %s, SRID %d]", tab.GeometryColumn, tab.GeometryType, tab.SRID)
		}
		fmt.Println()
		for _, col := range tab.Columns {
			fmt.Printf("  %-24s %s\n", col.Name, col.Type)
		}
	}
	return nil
}

// isQuery decides between the streaming and the update path. SQL that
// produces rows goes through Query, everything else through Exec.
func isQuery(sql string) bool {
	head := strings.ToUpper(strings.TrimSpace(sql))
	for _, kw := range []string{"SELECT", "WITH", "SHOW", "CALL", "VALUES", "EXPLAIN"} {
		if strings.HasPrefix(head, kw) {
			return true
		}
	}
	return false
}

func isEndOfStream(err error) bool {
	return errors.Is(err, rows.EndOfStream())
}

func formatRow(row rows.Row) string {
	parts := make([]string, len(row.Values))
	for i, v := range row.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " | ")
}
