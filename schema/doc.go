// Package schema holds the definitions the coercion engine resolves
// by-name type references against: classes, enums, and recursive type
// aliases, plus the target root type.
//
// A [Registry] is constructed once through a [Builder] (or from a YAML
// document via [LoadYAML]) and is immutable afterwards; recursive classes
// are discovered at build time with Tarjan's strongly-connected-components
// algorithm so the coercer knows where cycle tracking is needed.
// [ExportJSONSchema] projects a registry and root type onto a JSON Schema
// document for interchange.
package schema
