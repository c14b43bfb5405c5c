package kdb

import "github.com/keydbkit/keydb/key"

// recordError writes the facade's at-most-one error plus an indexed warning
// entry onto parent (§7), so a caller can inspect which plugin in the chain
// failed without the facade itself panicking or losing the earlier
// plugins' diagnostics.
func recordError(parent *key.Key, idx int, pluginName string, err error) {
	_ = parent.SetMeta("error/reason", err.Error())
	_ = parent.SetMeta("error/plugin", pluginName)
	_ = parent.AddWarning(key.Warning{
		Number:      idx,
		Description: "storage plugin failed",
		Module:      pluginName,
		Reason:      err.Error(),
	})
}
