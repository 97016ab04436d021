package autocomplete

// sqlKeywords are offered as bare keyword completions.
var sqlKeywords = []string{
	"SELECT", "FROM", "WHERE", "JOIN", "INNER JOIN", "LEFT JOIN", "RIGHT JOIN", "FULL JOIN",
	"ON", "GROUP BY", "HAVING", "ORDER BY", "LIMIT", "OFFSET", "DISTINCT", "COUNT", "SUM",
	"AVG", "MIN", "MAX", "AS", "AND", "OR", "NOT", "IN", "LIKE", "BETWEEN", "IS NULL",
	"IS NOT NULL", "EXISTS", "CASE", "WHEN", "THEN", "ELSE", "END", "UNION", "UNION ALL",
	"INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "CREATE", "ALTER", "DROP",
	"INDEX", "PRIMARY KEY", "FOREIGN KEY", "REFERENCES", "CONSTRAINT", "CHECK",
	"DEFAULT", "NOT NULL", "UNIQUE", "AUTO_INCREMENT", "SERIAL", "BOOLEAN", "INTEGER",
	"VARCHAR", "TEXT", "DECIMAL", "DATE", "TIMESTAMP", "TIME",
}

// sqlFunctions are offered with a description and a usage template that
// becomes the inserted text.
var sqlFunctions = []string{
	"COUNT", "SUM", "AVG", "MIN", "MAX", "ROUND", "FLOOR", "CEIL", "ABS", "SQRT",
	"UPPER", "LOWER", "TRIM", "LENGTH", "SUBSTRING", "CONCAT", "COALESCE", "NULLIF",
	"CAST", "EXTRACT", "DATE_PART", "NOW", "CURRENT_DATE", "CURRENT_TIME",
	"ROW_NUMBER", "RANK", "DENSE_RANK", "LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE",
}

var functionDescriptions = map[string]string{
	"COUNT":      "Returns the number of rows",
	"SUM":        "Returns the sum of numeric values",
	"AVG":        "Returns the average of numeric values",
	"MIN":        "Returns the minimum value",
	"MAX":        "Returns the maximum value",
	"ROUND":      "Rounds a number to specified decimal places",
	"UPPER":      "Converts text to uppercase",
	"LOWER":      "Converts text to lowercase",
	"CONCAT":     "Concatenates strings together",
	"ROW_NUMBER": "Assigns unique numbers to rows",
	"NOW":        "Returns current timestamp",
}

var functionUsages = map[string]string{
	"COUNT":      "COUNT(*) or COUNT(column)",
	"SUM":        "SUM(column)",
	"AVG":        "AVG(column)",
	"ROUND":      "ROUND(number, decimals)",
	"UPPER":      "UPPER(text)",
	"LOWER":      "LOWER(text)",
	"CONCAT":     "CONCAT(str1, str2, ...)",
	"ROW_NUMBER": "ROW_NUMBER() OVER (ORDER BY column)",
	"NOW":        "NOW()",
}

func functionDescription(name string) string {
	if d, ok := functionDescriptions[name]; ok {
		return d
	}
	return "SQL function"
}

func functionUsage(name string) string {
	if u, ok := functionUsages[name]; ok {
		return u
	}
	return name + "()"
}
