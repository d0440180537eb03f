package format

import (
	"strings"

	"psfmt/internal/ast"
	"psfmt/internal/token"
)

// aliasTable maps built-in aliases (lowercase) to their cmdlet names.
var aliasTable = map[string]string{
	"%":       "ForEach-Object",
	"?":       "Where-Object",
	"foreach": "ForEach-Object",
	"where":   "Where-Object",
	"ac":      "Add-Content",
	"cat":     "Get-Content",
	"cd":      "Set-Location",
	"chdir":   "Set-Location",
	"clc":     "Clear-Content",
	"clear":   "Clear-Host",
	"cls":     "Clear-Host",
	"copy":    "Copy-Item",
	"cp":      "Copy-Item",
	"cpi":     "Copy-Item",
	"del":     "Remove-Item",
	"dir":     "Get-ChildItem",
	"echo":    "Write-Output",
	"erase":   "Remove-Item",
	"fl":      "Format-List",
	"ft":      "Format-Table",
	"fw":      "Format-Wide",
	"gc":      "Get-Content",
	"gci":     "Get-ChildItem",
	"gcm":     "Get-Command",
	"gi":      "Get-Item",
	"gl":      "Get-Location",
	"gm":      "Get-Member",
	"gp":      "Get-ItemProperty",
	"gps":     "Get-Process",
	"group":   "Group-Object",
	"gsv":     "Get-Service",
	"gv":      "Get-Variable",
	"iex":     "Invoke-Expression",
	"irm":     "Invoke-RestMethod",
	"iwr":     "Invoke-WebRequest",
	"kill":    "Stop-Process",
	"ls":      "Get-ChildItem",
	"measure": "Measure-Object",
	"mi":      "Move-Item",
	"move":    "Move-Item",
	"mv":      "Move-Item",
	"ni":      "New-Item",
	"popd":    "Pop-Location",
	"ps":      "Get-Process",
	"pushd":   "Push-Location",
	"pwd":     "Get-Location",
	"rd":      "Remove-Item",
	"ren":     "Rename-Item",
	"ri":      "Remove-Item",
	"rm":      "Remove-Item",
	"rmdir":   "Remove-Item",
	"rni":     "Rename-Item",
	"rvpa":    "Resolve-Path",
	"select":  "Select-Object",
	"set":     "Set-Variable",
	"si":      "Set-Item",
	"sl":      "Set-Location",
	"sleep":   "Start-Sleep",
	"sort":    "Sort-Object",
	"sp":      "Set-ItemProperty",
	"spps":    "Stop-Process",
	"sv":      "Set-Variable",
	"tee":     "Tee-Object",
	"type":    "Get-Content",
	"write":   "Write-Output",
}

// deprecatedCommands maps host-only output cmdlets to their replacement.
var deprecatedCommands = map[string]string{
	"write-host": "Write-Output",
}

// pascalKeywords lists keywords whose Pascal spelling is not a plain title case.
var pascalKeywords = map[string]string{
	"elseif":       "ElseIf",
	"foreach":      "ForEach",
	"dynamicparam": "DynamicParam",
	"inlinescript": "InlineScript",
}

// canSingleQuote reports whether the double-quoted string at part i can be
// written with single quotes without changing its value.
func canSingleQuote(e *ast.Expression, i int) bool {
	t := e.Parts[i].(*ast.Text)
	v := t.Value
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return false
	}
	inner := v[1 : len(v)-1]
	if strings.ContainsAny(inner, "'`$\"\n\r‘’‚‛“”„") {
		return false
	}
	if looksLikeRegex(inner) || isWriteCall(e) {
		return false
	}
	if i > 0 {
		if op, ok := e.Parts[i-1].(*ast.Text); ok && op.Role == ast.RoleOperator && token.IsRegexOperator(op.Value) {
			return false
		}
	}
	return true
}

func looksLikeRegex(s string) bool {
	if strings.ContainsAny(s, `\^|`) || strings.Contains(s, "(?") {
		return true
	}
	if strings.Contains(s, ".*") || strings.Contains(s, ".+") {
		return true
	}
	open := strings.IndexByte(s, '[')
	return open >= 0 && strings.IndexByte(s[open:], ']') > 0
}

// isWriteCall: arguments of Write-* cmdlets keep their quotes.
func isWriteCall(e *ast.Expression) bool {
	if len(e.Parts) == 0 {
		return false
	}
	t, ok := e.Parts[0].(*ast.Text)
	return ok && t.Role == ast.RoleWord && len(t.Value) > 6 && strings.EqualFold(t.Value[:6], "write-")
}
