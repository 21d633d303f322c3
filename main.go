/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/apolion-games/mentorhub/cmd"

func main() {
	cmd.Execute()
}
