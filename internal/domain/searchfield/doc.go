// Package searchfield models the configurable controls of a View's search
// widget.
//
// A View persists its search widget as a list of configuration maps. Each map
// is turned into a Field by FromConfiguration, which dispatches on the "type"
// key: a fixed key such as "search_all" or "entry_date" selects a built-in
// variant, and a "<form_id>::<field_id>" key selects a field backed by a
// Gravity Forms field definition.
//
// Fields project themselves three ways:
//
//   - ToConfiguration, the persisted map. FromConfiguration(f.ToConfiguration())
//     rebuilds an equivalent field.
//   - ToTemplateData, the values a renderer needs, read against the current
//     request parameters.
//   - ToLegacyFormat, the {field, input, title} shape of older renderers.
//
// Choice fields can be sieved: their choices are narrowed to the values that
// actually occur in the View's entries. Sieving runs through
// Collection.ToTemplateData, which issues one value query for every sievable
// field in the collection.
package searchfield
