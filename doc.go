package goblockly

// Package goblockly turns TypeScript declaration files into Blockly blocks
// and compiles Blockly workspaces back into JavaScript.
//
// It provides:
//
// - Block definitions (Definition) serialized to Blockly's JSON block format
// - A generator table (Table) mapping block types to code generators
// - Workspace decoding from Blockly's JSON serialization and Compile
// - A stable error model via Issues (code, kind, path, position)
//
// Design policy:
// - Keep only the block and codegen contracts in the root package.
// - Declaration parsing lives in internal/decl, block synthesis in internal/gen,
//   and the batch loader in dts/.
// - Standard blocks live under stdblocks/, palettes under toolbox/, and the CLI
//   under cmd/goblockly.
//
// Typical usage:
//
//  res, err := toolbox.Jaculus()
//  defs := res.Definitions()           // to Blockly.defineBlocksWithJsonArray
//  ws, err := goblockly.DecodeWorkspace(data)
//  code, diag, err := goblockly.Compile(res.Table(), ws)
//
