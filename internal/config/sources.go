package config

import "sort"

// GetConfigFile returns the highest-priority config file that was read, if any.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// SourceOf returns where field's value came from.
func (cws *ConfigWithSources) SourceOf(field string) ConfigSource {
	if s, ok := cws.Sources[field]; ok {
		return s
	}
	return SourceDefault
}

// SortedFields returns tracked field names in a stable order.
func (cws *ConfigWithSources) SortedFields() []string {
	fields := make([]string, 0, len(cws.Sources))
	for f := range cws.Sources {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
