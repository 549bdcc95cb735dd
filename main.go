package main

import "github.com/iMuhammadMustafa/Budgeteer-sub003/internal/cli"

func main() {
	cli.Execute()
}
